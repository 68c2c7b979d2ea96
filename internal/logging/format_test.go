package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestFormatTimestampAt(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 30, 0, 0, time.Local)
	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{"same day", time.Date(2026, 3, 14, 9, 5, 7, 0, time.Local), "09:05:07"},
		{"earlier day", time.Date(2026, 3, 13, 23, 59, 59, 0, time.Local), "2026-03-13 23:59:59"},
		{"zero", time.Time{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTimestampAt(tt.ts, now); got != tt.want {
				t.Fatalf("formatTimestampAt = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value slog.Value
		want  string
	}{
		{"audio seconds", slog.Float64Value(1.98412345), "1.984"},
		{"whole float", slog.Float64Value(2), "2"},
		{"elapsed", slog.DurationValue(3*time.Second + 456789*time.Microsecond), "3.457s"},
		{"short duration", slog.DurationValue(1500 * time.Nanosecond), "2µs"},
		{"phrase", slog.StringValue("J'ai une voiture"), `"J'ai une voiture"`},
		{"accented", slog.StringValue("café"), "café"},
		{"empty", slog.StringValue(""), `""`},
		{"error", slog.AnyValue(errors.New("exit status 1")), `"exit status 1"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.value); got != tt.want {
				t.Fatalf("formatValue = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONHandlerRecordShape(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	handler, err := newJSONHandler(&buf, lvl, false)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(handler).With(slog.String(FieldRunID, "run-1"))
	logger.Info("segment encoded",
		slog.Duration("elapsed", 1234567890*time.Nanosecond),
		slog.Float64("duration_seconds", 2.00049),
		slog.Group("audio", slog.Float64("offset", 1.23456)),
	)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v (%s)", err, buf.String())
	}
	if record["msg"] != "segment encoded" || record["level"] != "info" || record[FieldRunID] != "run-1" {
		t.Fatalf("unexpected record %v", record)
	}
	if record["elapsed"] != "1.235s" {
		t.Fatalf("elapsed = %v", record["elapsed"])
	}
	if record["duration_seconds"] != 2.0 {
		t.Fatalf("duration_seconds = %v", record["duration_seconds"])
	}
	if group, ok := record["audio"].(map[string]any); !ok || group["offset"] != 1.235 {
		t.Fatalf("audio group = %v", record["audio"])
	}
	ts, ok := record["ts"].(string)
	if !ok {
		t.Fatalf("missing ts in %v", record)
	}
	if _, err := time.Parse(fileTimeLayout, ts); err != nil || !strings.Contains(ts, ".") {
		t.Fatalf("ts %q not in millisecond layout: %v", ts, err)
	}
}

type failingHandler struct {
	NoopHandler
	err   error
	calls int
}

func (h *failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *failingHandler) Handle(context.Context, slog.Record) error {
	h.calls++
	return h.err
}

func TestFanoutHandlerJoinsSinkErrors(t *testing.T) {
	console := &failingHandler{err: errors.New("terminal closed")}
	file := &failingHandler{err: errors.New("disk full")}
	var buf bytes.Buffer
	healthy := slog.NewJSONHandler(&buf, nil)

	h := newFanoutHandler(console, file, healthy)
	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "row rendered", 0))
	if err == nil || !strings.Contains(err.Error(), "terminal closed") || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected both sink errors, got %v", err)
	}
	if console.calls != 1 || file.calls != 1 || buf.Len() == 0 {
		t.Fatalf("every sink should receive the record (console=%d file=%d healthy=%d bytes)", console.calls, file.calls, buf.Len())
	}
}
