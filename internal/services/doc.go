// Package services defines shared utilities consumed by the generation
// pipeline and its provider integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and row indexes for logging.
//   - Structured error markers plus the Wrap helper that sort failures into
//     recoverable per-row conditions (asset, provider, detection) and run-level
//     failures (input, encoding, configuration, cancellation).
//
// Use these helpers when wiring new pipeline steps so error handling and
// observability stay uniform across components.
package services
