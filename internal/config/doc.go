// Package config loads, normalizes, and validates bilingo configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BILINGO_TTS_API_KEY. GenerationConfig projects the file layout into the
// per-run Generation value consumed by the rendering and narration packages.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical provider names, and clear validation errors.
package config
