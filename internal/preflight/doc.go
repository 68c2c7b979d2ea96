// Package preflight provides readiness checks for the tools, directories and
// providers a generation run depends on.
//
// The status command prints every result; generate runs the same checks and
// refuses to start when a required one fails, so a missing ffmpeg is reported
// before any slide is rendered. Checks for optional features are skipped when
// the feature is disabled.
package preflight
