// Package ffprobe wraps ffprobe JSON output.
//
// Prober runs the binary through an injectable runner so callers can probe
// narration clips for their duration without shelling out in tests.
package ffprobe
