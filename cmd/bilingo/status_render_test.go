package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"bilingo/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "FFmpeg:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("FFmpeg", statusOK, "ready", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestCheckLines(t *testing.T) {
	results := []preflight.Result{
		{Name: "FFmpeg", Passed: false, Detail: `binary "ffmpeg" not found`},
		{Name: "FFprobe", Passed: true, Detail: "/usr/bin/ffprobe"},
		{Name: "Background image", Optional: true, Detail: "missing"},
	}
	lines := checkLines(results, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[ERROR] Blocked by FFmpeg") {
		t.Fatalf("expected blocking summary first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR]") || !strings.Contains(lines[2], "[OK] /usr/bin/ffprobe") || !strings.Contains(lines[3], "[WARN] missing") {
		t.Fatalf("unexpected lines %q", lines)
	}

	ready := checkLines(results[1:], false)
	if !strings.Contains(ready[0], "[OK] Ready to generate") {
		t.Fatalf("expected ready summary, got %q", ready[0])
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestTruncateAndShortRunID(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := shortRunID("0123456789"); got != "01234567" {
		t.Fatalf("shortRunID = %q", got)
	}
}
