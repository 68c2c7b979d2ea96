package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"bilingo/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrEncoding, "ffmpeg", "concat", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrEncoding) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"ffmpeg", "concat", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want services.Class
	}{
		{"input", services.Wrap(services.ErrInput, "sheet", "read", "no rows", nil), services.ClassInput},
		{"asset", services.Wrap(services.ErrAsset, "slide", "background", "missing", nil), services.ClassAsset},
		{"provider", services.Wrap(services.ErrProvider, "tts", "cloud", "quota", nil), services.ClassProvider},
		{"detection", services.Wrap(services.ErrDetection, "language", "detect", "", nil), services.ClassDetection},
		{"encoding", services.Wrap(services.ErrEncoding, "ffmpeg", "concat", "", nil), services.ClassEncoding},
		{"tool", services.Wrap(services.ErrExternalTool, "ffprobe", "inspect", "", nil), services.ClassEncoding},
		{"config", services.Wrap(services.ErrConfiguration, "config", "load", "", nil), services.ClassConfiguration},
		{"canceled", fmt.Errorf("row 3: %w", context.Canceled), services.ClassCanceled},
		{"unknown", errors.New("plain"), services.ClassUnknown},
		{"nil", nil, services.ClassUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Classify(tt.err); got != tt.want {
				t.Fatalf("Classify = %q, want %q", got, tt.want)
			}
			if services.Hint(tt.err) == "" {
				t.Fatal("expected a hint for every class")
			}
		})
	}
}

func TestHintFollowsClass(t *testing.T) {
	err := fmt.Errorf("row 2: %w", services.Wrap(services.ErrEncoding, "ffmpeg", "segment", "", nil))
	if got := services.Hint(err); !strings.Contains(got, "ffmpeg") {
		t.Fatalf("Hint = %q", got)
	}
	if got := services.Hint(errors.New("plain")); got != "check logs for details" {
		t.Fatalf("Hint = %q", got)
	}
}
