package main

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	long := "ffmpeg concat failed because the segment list referenced a missing file"
	out := renderTable(
		[]tableColumn{col("Run"), col("Rows").right(), col("Result").wrapAt(24)},
		[][]string{
			{"aaaa1111", "3", long},
			{"bbbb2222", "12"},
		},
	)

	lines := strings.Split(out, "\n")
	if len(lines) < 7 {
		t.Fatalf("expected wrapped rows, got:\n%s", out)
	}
	if strings.Contains(out, long) {
		t.Fatalf("long result should wrap:\n%s", out)
	}
	for _, word := range []string{"concat", "segment", "missing"} {
		if !strings.Contains(out, word) {
			t.Fatalf("wrapped cell lost %q:\n%s", word, out)
		}
	}
	var blankRow string
	for _, line := range lines {
		if strings.Contains(line, "bbbb2222") {
			blankRow = line
		}
	}
	if !strings.Contains(blankRow, " "+emptyCell+" ") {
		t.Fatalf("missing cell should render as %q: %q", emptyCell, blankRow)
	}
	if !strings.Contains(blankRow, " 12 ") {
		t.Fatalf("unexpected row %q", blankRow)
	}
}

func TestRenderTableWithoutColumns(t *testing.T) {
	if got := renderTable(nil, [][]string{{"x"}}); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
