package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bilingo/internal/services"
)

// timeLayout keeps fractional seconds fixed-width so stored timestamps sort
// lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Run is one ledger entry.
type Run struct {
	ID              int64
	RunID           string
	InputPath       string
	OutputPath      string
	Language1       string
	Language2       string
	Provider        string
	Rows            int
	Status          Status
	ErrorClass      string
	ErrorMessage    string
	DurationSeconds float64
	PublishedURL    string
	StartedAt       time.Time
	FinishedAt      *time.Time
}

// Start records a run as running.
func (s *Store) Start(ctx context.Context, run Run) (*Run, error) {
	if run.RunID == "" {
		return nil, errors.New("run id required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.Status = StatusRunning
	res, err := s.execWithRetry(ctx,
		`INSERT INTO runs (run_id, input_path, output_path, language_1, language_2, provider, rows, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.InputPath, run.OutputPath, run.Language1, run.Language2, run.Provider,
		run.Rows, string(run.Status), run.StartedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("run id: %w", err)
	}
	run.ID = id
	return &run, nil
}

// Outcome is how a run ended.
type Outcome struct {
	Err             error
	DurationSeconds float64
	PublishedURL    string
}

// Finish closes a running entry. A nil Err marks it completed; cancellation
// marks it canceled; anything else is a failure with its classified message.
func (s *Store) Finish(ctx context.Context, runID string, outcome Outcome) (*Run, error) {
	status := StatusCompleted
	var class, message any
	if outcome.Err != nil {
		status = StatusFailed
		c := services.Classify(outcome.Err)
		if c == services.ClassCanceled {
			status = StatusCanceled
		}
		class = string(c)
		message = outcome.Err.Error()
	}
	var published any
	if outcome.PublishedURL != "" {
		published = outcome.PublishedURL
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, error_class = ?, error_message = ?, duration_seconds = ?, published_url = ?, finished_at = ?
		 WHERE run_id = ? AND status = ?`,
		string(status), class, message, outcome.DurationSeconds, published,
		time.Now().UTC().Format(timeLayout), runID, string(StatusRunning),
	)
	if err != nil {
		return nil, fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("finish run %s: %w", runID, ErrNotFound)
	}
	return s.Get(ctx, runID)
}

const runColumns = `id, run_id, input_path, output_path, language_1, language_2, provider, rows, status,
	error_class, error_message, duration_seconds, published_url, started_at, finished_at`

// Get loads a run by its run id.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", runID, ErrNotFound)
	}
	return run, err
}

// List returns the most recent runs first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Prune deletes finished runs that started before cutoff.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(ctx,
		"DELETE FROM runs WHERE status != ? AND started_at < ?",
		string(StatusRunning), cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		status      string
		errorClass  sql.NullString
		errorMsg    sql.NullString
		published   sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID, &run.RunID, &run.InputPath, &run.OutputPath, &run.Language1, &run.Language2,
		&run.Provider, &run.Rows, &status, &errorClass, &errorMsg, &run.DurationSeconds,
		&published, &startedRaw, &finishedRaw,
	); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	run.ErrorClass = errorClass.String
	run.ErrorMessage = errorMsg.String
	run.PublishedURL = published.String
	if t, err := time.Parse(timeLayout, startedRaw); err == nil {
		run.StartedAt = t
	}
	if finishedRaw.Valid {
		if t, err := time.Parse(timeLayout, finishedRaw.String); err == nil {
			run.FinishedAt = &t
		}
	}
	return &run, nil
}
