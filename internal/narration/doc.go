// Package narration resolves phrase text to cached speech assets.
//
// A Resolver maps a language name to a provider code through the language
// registry, derives a deterministic cache key, and synthesizes on a miss. The
// cloud provider is tried first when configured; any failure falls back to the
// free provider, whose output is time-stretched locally when a speed other
// than 1.0 is requested. Concurrent requests for the same key share a single
// synthesis and every asset is written through a temp file and rename.
package narration
