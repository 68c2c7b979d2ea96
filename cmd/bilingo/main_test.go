package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"

	"bilingo/internal/services"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"canceled context", fmt.Errorf("row 2: %w", context.Canceled), exitInterrupted},
		{"canceled run", services.Wrap(services.ErrCanceled, "timeline", "run", "", nil), exitInterrupted},
		{"bad sheet", services.Wrap(services.ErrInput, "sheet", "load", "x.doc", nil), exitUsage},
		{"bad config", services.Wrap(services.ErrConfiguration, "config", "load", "", nil), exitUsage},
		{"encoding", services.Wrap(services.ErrEncoding, "ffmpeg", "concat", "", nil), exitFailure},
		{"plain", errors.New("boom"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Fatalf("exitCode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteJSONKeepsPhraseText(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	if err := writeJSON(cmd, map[string]string{"text": "Tom & Jerry <3"}); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	requireContains(t, buf.String(), `"text": "Tom & Jerry <3"`)
}
