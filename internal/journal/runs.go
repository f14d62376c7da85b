package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RunStatus describes where a run ended up.
type RunStatus string

const (
	RunRunning         RunStatus = "running"
	RunCompleted       RunStatus = "completed"
	RunPartiallyFailed RunStatus = "partially_failed"
	RunCancelled       RunStatus = "cancelled"
	RunFailed          RunStatus = "failed"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// Counters are the outcome totals of a run.
type Counters struct {
	Catalogued int
	Redundant  int
	Removed    int
	Missing    int
	Failed     int
}

// Run is one sweep over a library root.
type Run struct {
	ID           string
	Root         string
	DryRun       bool
	Mode         string
	Status       RunStatus
	StartedAt    time.Time
	FinishedAt   time.Time
	Counters     Counters
	ErrorMessage string
}

// Action is one target handled during a run.
type Action struct {
	ID           int64
	RunID        string
	EntryName    string
	Outcome      string
	Path         string
	Kind         string
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

const runColumns = "id, root, dry_run, mode, status, started_at, finished_at, catalogued, redundant, removed, missing, failed, error_message"

// BeginRun inserts run with status running.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	err := s.exec(ctx,
		`INSERT INTO runs (id, root, dry_run, mode, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, boolToInt(run.DryRun), run.Mode, RunRunning, formatTime(run.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordActions appends actions to a run in one transaction.
func (s *Store) RecordActions(ctx context.Context, actions []Action) error {
	if len(actions) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin actions tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO actions (run_id, entry_name, outcome, path, kind, status, error_message, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare action insert: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, a := range actions {
			created := a.CreatedAt
			if created.IsZero() {
				created = now
			}
			if _, err := stmt.ExecContext(ctx,
				a.RunID, a.EntryName, a.Outcome, a.Path, a.Kind, a.Status,
				nullString(a.ErrorMessage), formatTime(created),
			); err != nil {
				return fmt.Errorf("insert action %s: %w", a.Path, err)
			}
		}
		return tx.Commit()
	})
}

// FinishRun stores the final status and counters of a run.
func (s *Store) FinishRun(ctx context.Context, id string, status RunStatus, counters Counters, errMsg string) error {
	err := s.exec(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, catalogued = ?, redundant = ?, removed = ?,
             missing = ?, failed = ?, error_message = ? WHERE id = ?`,
		status, formatTime(time.Now()), counters.Catalogued, counters.Redundant, counters.Removed,
		counters.Missing, counters.Failed, nullString(errMsg), id,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id"
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

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns a run by id, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// FindRun resolves a full id or a unique id prefix.
func (s *Store) FindRun(ctx context.Context, prefix string) (*Run, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR id LIKE ? ORDER BY started_at DESC LIMIT 2",
		prefix, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == prefix {
			return run, nil
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", prefix)
	}
}

// Actions returns a run's actions in insertion order.
func (s *Store) Actions(ctx context.Context, runID string) ([]Action, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, entry_name, outcome, path, kind, status, error_message, created_at
         FROM actions WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var out []Action
	for rows.Next() {
		var (
			a       Action
			errMsg  sql.NullString
			created sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.RunID, &a.EntryName, &a.Outcome, &a.Path, &a.Kind, &a.Status, &errMsg, &created); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		a.ErrorMessage = errMsg.String
		a.CreatedAt = parseTime(created)
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run      Run
		dryRun   int
		status   string
		started  sql.NullString
		finished sql.NullString
		errMsg   sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Root,
		&dryRun,
		&run.Mode,
		&status,
		&started,
		&finished,
		&run.Counters.Catalogued,
		&run.Counters.Redundant,
		&run.Counters.Removed,
		&run.Counters.Missing,
		&run.Counters.Failed,
		&errMsg,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.DryRun = dryRun != 0
	run.Status = RunStatus(status)
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	run.ErrorMessage = errMsg.String
	return &run, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
