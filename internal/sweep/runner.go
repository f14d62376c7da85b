package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"cutsweep/internal/catalog"
	"cutsweep/internal/cleanup"
	"cutsweep/internal/config"
	"cutsweep/internal/journal"
	"cutsweep/internal/logging"
	"cutsweep/internal/preflight"
	"cutsweep/internal/resolve"
	"cutsweep/internal/variant"
)

// Runner executes sweeps with a fixed configuration.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	journal *journal.Store
}

// NewRunner constructs a runner. store may be nil to disable the journal.
func NewRunner(cfg *config.Config, logger *slog.Logger, store *journal.Store) *Runner {
	return &Runner{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "sweep"),
		journal: store,
	}
}

// Run sweeps root. The returned error is non-nil only for fatal failures
// (preflight, lock, catalog construction, disposer setup); per-file failures
// are reported in the summary.
func (r *Runner) Run(ctx context.Context, root string) (*Summary, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		Root:      absRoot,
		DryRun:    r.cfg.Cleanup.DryRun,
		Mode:      r.cfg.Cleanup.Mode,
		Status:    journal.RunRunning,
		StartedAt: time.Now(),
	}
	logger := r.logger.With(logging.String(logging.FieldRunID, summary.RunID))

	if err := preflight.Err(preflight.RunAll(r.cfg, absRoot)); err != nil {
		return nil, err
	}

	if !summary.DryRun {
		lock, err := acquireRootLock(absRoot)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.release(); err != nil {
				logging.WarnWithContext(logger, "run lock not released", "run_lock_release_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "remove "+LockFileName+" from the library root manually"),
				)
			}
		}()
	}

	disposer, err := r.disposer(absRoot)
	if err != nil {
		return nil, err
	}

	r.beginRun(ctx, logger, summary)
	logger.Info("sweep started",
		logging.String("root", absRoot),
		logging.Bool("dry_run", summary.DryRun),
		logging.String("mode", summary.Mode),
	)

	built, err := r.buildCatalog(ctx, logger, absRoot, false)
	if err != nil {
		r.finishRun(logger, summary, journal.RunFailed, err)
		return nil, err
	}
	summary.FromCache = built.FromCache
	summary.Scan = built.Stats

	executor := cleanup.NewExecutor(disposer, summary.DryRun, logger)
	r.sweep(ctx, logger, built.Catalog, executor, summary)

	summary.tally()
	status := journal.RunCompleted
	switch {
	case summary.Counts.Pending > 0:
		status = journal.RunCancelled
	case summary.Counts.Failed > 0:
		status = journal.RunPartiallyFailed
	}
	r.finishRun(logger, summary, status, nil)

	logger.Info("sweep finished",
		logging.String("status", string(summary.Status)),
		logging.Int("catalogued", summary.Counts.Catalogued),
		logging.Int("redundant", summary.Counts.Redundant),
		logging.Int("removed", summary.Counts.Removed),
		logging.Int("would_remove", summary.Counts.WouldRemove),
		logging.Int("failed", summary.Counts.Failed),
		logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, nil
}

func (r *Runner) disposer(root string) (cleanup.Disposer, error) {
	if !r.cfg.Quarantine() {
		return cleanup.Remover{}, nil
	}
	q, err := cleanup.NewQuarantine(root, r.cfg.Paths.BackupDir)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// sweep resolves and executes every entry on the worker pool. Reports are
// written by index so workers never share mutable state.
func (r *Runner) sweep(ctx context.Context, logger *slog.Logger, cat *catalog.Catalog, executor *cleanup.Executor, summary *Summary) {
	entries := cat.Entries()
	summary.Entries = make([]EntryReport, len(entries))
	for i, entry := range entries {
		summary.Entries[i] = EntryReport{Name: entry.Name, Path: entry.Path, State: cleanup.StatePending}
	}

	resolver := resolve.New(cat, variant.NewExpander(r.cfg.Cleanup.SidecarSuffixes))
	workers := r.cfg.Cleanup.Workers
	if workers <= 0 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			summary.Entries[i] = r.processEntry(ctx, logger, resolver, executor, summary.RunID, entry)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		logging.WarnWithContext(logger, "sweep interrupted", "sweep_cancelled",
			logging.Error(err),
			logging.String(logging.FieldImpact, "remaining entries were not processed"),
			logging.String(logging.FieldErrorHint, "rerun the sweep to finish"),
		)
	}
}

func (r *Runner) processEntry(ctx context.Context, logger *slog.Logger, resolver *resolve.Resolver, executor *cleanup.Executor, runID string, entry catalog.Entry) EntryReport {
	report := EntryReport{Name: entry.Name, Path: entry.Path, State: cleanup.StatePending}
	decision := resolver.Resolve(entry)
	report.Outcome = decision.Outcome.String()
	if !decision.Redundant() {
		report.State = cleanup.StateKept
		return report
	}

	logger.Debug("redundant file",
		logging.String(logging.FieldPath, entry.Path),
		logging.String("outcome", report.Outcome),
		logging.Any("alternates", decision.Alternates),
	)
	transition(logger, &report, cleanup.StatePlanBuilt)

	// Plans run to completion once started, even if ctx is cancelled meanwhile.
	transition(logger, &report, cleanup.StateExecuting)
	results := make([]cleanup.Result, 0, len(decision.Plans))
	state := cleanup.StateCompleted
	for _, plan := range decision.Plans {
		result := executor.Execute(context.WithoutCancel(ctx), plan)
		if result.State() == cleanup.StatePartiallyFailed {
			state = cleanup.StatePartiallyFailed
		}
		results = append(results, result)
	}
	transition(logger, &report, state)
	report.Targets = targetReports(results)

	r.recordActions(ctx, logger, runID, report)
	return report
}

func transition(logger *slog.Logger, report *EntryReport, state cleanup.State) {
	logger.Debug("entry state",
		logging.String(logging.FieldPath, report.Path),
		logging.String("from", string(report.State)),
		logging.String("to", string(state)),
	)
	report.State = state
}

func (r *Runner) beginRun(ctx context.Context, logger *slog.Logger, summary *Summary) {
	if r.journal == nil {
		return
	}
	err := r.journal.BeginRun(ctx, journal.Run{
		ID:        summary.RunID,
		Root:      summary.Root,
		DryRun:    summary.DryRun,
		Mode:      summary.Mode,
		StartedAt: summary.StartedAt,
	})
	if err != nil {
		r.journalWarning(logger, "failed to record run start", err)
	}
}

func (r *Runner) recordActions(ctx context.Context, logger *slog.Logger, runID string, report EntryReport) {
	if r.journal == nil || len(report.Targets) == 0 {
		return
	}
	actions := make([]journal.Action, 0, len(report.Targets))
	for _, t := range report.Targets {
		actions = append(actions, journal.Action{
			RunID:        runID,
			EntryName:    report.Name,
			Outcome:      report.Outcome,
			Path:         t.Path,
			Kind:         t.Kind,
			Status:       t.Status,
			ErrorMessage: t.Error,
		})
	}
	if err := r.journal.RecordActions(context.WithoutCancel(ctx), actions); err != nil {
		r.journalWarning(logger, "failed to record actions", err)
	}
}

func (r *Runner) finishRun(logger *slog.Logger, summary *Summary, status journal.RunStatus, runErr error) {
	summary.Status = status
	summary.FinishedAt = time.Now()
	if r.journal == nil {
		return
	}
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	if err := r.journal.FinishRun(context.Background(), summary.RunID, status, summary.journalCounters(), msg); err != nil {
		r.journalWarning(logger, "failed to record run result", err)
	}
}

func (r *Runner) journalWarning(logger *slog.Logger, msg string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	logging.WarnWithContext(logger, msg, "journal_write_failed",
		logging.Error(err),
		logging.String(logging.FieldPath, r.journal.Path()),
		logging.String(logging.FieldErrorHint, "check that the journal database is writable"),
		logging.String(logging.FieldImpact, "run history is incomplete"),
	)
}
