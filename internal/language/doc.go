// Package language maps human-readable language names to the codes used by
// speech providers and language detection.
//
// The Registry is an injected value rather than a global table so callers can
// extend it. Resolving the Auto sentinel runs the configured Detector against
// the text; unknown names and detection failures fall back to English.
package language
