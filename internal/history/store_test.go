package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bilingo/internal/services"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStartFinishCompleted(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	run, err := store.Start(ctx, Run{RunID: "run-1", InputPath: "lesson.xlsx", OutputPath: "lesson_slideshow.mp4", Rows: 3, Provider: "primary"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if run.ID == 0 || run.Status != StatusRunning {
		t.Fatalf("unexpected run %+v", run)
	}
	done, err := store.Finish(ctx, "run-1", Outcome{DurationSeconds: 12.5, PublishedURL: "s3://b/k.mp4"})
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if done.Status != StatusCompleted || done.DurationSeconds != 12.5 || done.FinishedAt == nil || done.ErrorMessage != "" {
		t.Fatalf("unexpected finished run %+v", done)
	}
	if done.PublishedURL != "s3://b/k.mp4" || done.Rows != 3 {
		t.Fatalf("unexpected finished run %+v", done)
	}
	if _, err := store.Finish(ctx, "run-1", Outcome{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second finish should fail, got %v", err)
	}
}

func TestFinishRecordsFailures(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for _, id := range []string{"enc", "cancel"} {
		if _, err := store.Start(ctx, Run{RunID: id, InputPath: "in.csv", OutputPath: "out.mp4"}); err != nil {
			t.Fatal(err)
		}
	}
	encErr := services.Wrap(services.ErrEncoding, "ffmpeg", "concat", "out.mp4", errors.New("disk full"))
	failed, err := store.Finish(ctx, "enc", Outcome{Err: encErr})
	if err != nil {
		t.Fatal(err)
	}
	if failed.Status != StatusFailed || failed.ErrorClass != string(services.ClassEncoding) || failed.ErrorMessage != encErr.Error() {
		t.Fatalf("unexpected failed run %+v", failed)
	}
	canceled, err := store.Finish(ctx, "cancel", Outcome{Err: context.Canceled})
	if err != nil {
		t.Fatal(err)
	}
	if canceled.Status != StatusCanceled {
		t.Fatalf("expected canceled, got %s", canceled.Status)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if _, err := store.Start(ctx, Run{RunID: id, InputPath: id, OutputPath: id, StartedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "c" || runs[1].RunID != "b" {
		t.Fatalf("unexpected order %v", []string{runs[0].RunID, runs[1].RunID})
	}
	all, err := store.List(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("List all: %d %v", len(all), err)
	}
	if !all[2].StartedAt.Equal(base) {
		t.Fatalf("started_at round trip = %v", all[2].StartedAt)
	}
}

func TestPruneKeepsRunning(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour)
	for _, id := range []string{"old-done", "old-running"} {
		if _, err := store.Start(ctx, Run{RunID: id, InputPath: "x", OutputPath: "y", StartedAt: old}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.Finish(ctx, "old-done", Outcome{}); err != nil {
		t.Fatal(err)
	}
	removed, err := store.Prune(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
	if _, err := store.Get(ctx, "old-running"); err != nil {
		t.Fatalf("running entry should survive: %v", err)
	}
	if _, err := store.Get(ctx, "old-done"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Start(context.Background(), Run{RunID: "persist", InputPath: "i", OutputPath: "o"}); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if _, err := reopened.Get(context.Background(), "persist"); err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
}
