package testsupport

import (
	"context"
	"testing"
	"time"

	"bilingo/internal/config"
	"bilingo/internal/history"
)

// MustOpenHistory opens the run history for cfg and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRun records a running history entry for tests.
func NewRun(t testing.TB, store *history.Store, runID, input string, started time.Time) *history.Run {
	t.Helper()

	run, err := store.Start(context.Background(), history.Run{
		RunID:     runID,
		InputPath: input,
		Language1: "English",
		Language2: "French",
		Provider:  string(config.ProviderPrimary),
		Rows:      3,
		StartedAt: started,
	})
	if err != nil {
		t.Fatalf("store.Start: %v", err)
	}
	return run
}
