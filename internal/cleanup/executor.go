package cleanup

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"cutsweep/internal/logging"
	"cutsweep/internal/resolve"
)

// Status is the outcome of one target.
type Status string

const (
	StatusRemoved     Status = "removed"
	StatusWouldRemove Status = "would_remove"
	StatusMissing     Status = "missing"
	StatusFailed      Status = "failed"
)

// State is the lifecycle position of one catalog entry within a sweep.
type State string

const (
	StatePending         State = "pending"
	StateKept            State = "kept"
	StatePlanBuilt       State = "plan_built"
	StateExecuting       State = "executing"
	StateCompleted       State = "completed"
	StatePartiallyFailed State = "partially_failed"
)

// Failure is a target that could not be disposed of.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return f.Path + ": " + f.Err.Error()
}

func (f Failure) Unwrap() error { return f.Err }

// Action records what happened to one target.
type Action struct {
	Target resolve.Target
	Status Status
	Err    error
}

// Result is the outcome of executing one plan.
type Result struct {
	Primary string
	Actions []Action
}

// Failures returns the targets that could not be disposed of.
func (r Result) Failures() []Failure {
	var out []Failure
	for _, a := range r.Actions {
		if a.Status == StatusFailed {
			out = append(out, Failure{Path: a.Target.Path, Err: a.Err})
		}
	}
	return out
}

// State reports the terminal state of the executed plan.
func (r Result) State() State {
	if r.Count(StatusFailed) > 0 {
		return StatePartiallyFailed
	}
	return StateCompleted
}

// Count returns how many actions ended with status.
func (r Result) Count(status Status) int {
	n := 0
	for _, a := range r.Actions {
		if a.Status == status {
			n++
		}
	}
	return n
}

// Executor disposes of plan targets.
type Executor struct {
	disposer Disposer
	dryRun   bool
	logger   *slog.Logger
}

// NewExecutor returns an executor using disposer. A nil disposer deletes files.
func NewExecutor(disposer Disposer, dryRun bool, logger *slog.Logger) *Executor {
	if disposer == nil {
		disposer = Remover{}
	}
	return &Executor{
		disposer: disposer,
		dryRun:   dryRun,
		logger:   logging.NewComponentLogger(logger, "cleanup"),
	}
}

// DryRun reports whether the executor only simulates.
func (e *Executor) DryRun() bool { return e.dryRun }

// Execute attempts every target of plan exactly once. Failures are recorded in
// the result and never stop the remaining targets.
func (e *Executor) Execute(ctx context.Context, plan resolve.Plan) Result {
	result := Result{Primary: plan.Primary.Path, Actions: make([]Action, 0, len(plan.Targets))}
	verb := e.disposer.Verb()

	for _, target := range plan.Targets {
		attrs := []logging.Attr{
			logging.String(logging.FieldPath, target.Path),
			logging.String("kind", string(target.Kind)),
		}

		if e.dryRun {
			e.logger.Info("would "+verb, logging.Args(attrs...)...)
			result.Actions = append(result.Actions, Action{Target: target, Status: StatusWouldRemove})
			continue
		}

		err := e.disposer.Dispose(ctx, target.Path)
		switch {
		case err == nil:
			e.logger.Info(pastTense(verb), logging.Args(attrs...)...)
			result.Actions = append(result.Actions, Action{Target: target, Status: StatusRemoved})
		case errors.Is(err, fs.ErrNotExist):
			if target.Kind == resolve.KindPrimary {
				logging.WarnWithContext(e.logger, "file already gone", "cleanup_missing",
					append(attrs,
						logging.String(logging.FieldErrorHint, "file may have been removed earlier in this run or by another process"),
						logging.String(logging.FieldImpact, "nothing to "+verb),
					)...)
			} else {
				e.logger.Debug("sidecar not present", logging.Args(attrs...)...)
			}
			result.Actions = append(result.Actions, Action{Target: target, Status: StatusMissing, Err: err})
		default:
			logging.WarnWithContext(e.logger, verb+" failed", "cleanup_failed",
				append(attrs,
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check file permissions and locks"),
					logging.String(logging.FieldImpact, "file left in place"),
				)...)
			result.Actions = append(result.Actions, Action{Target: target, Status: StatusFailed, Err: err})
		}
	}
	return result
}

func pastTense(verb string) string {
	switch verb {
	case "remove":
		return "removed"
	case "quarantine":
		return "quarantined"
	default:
		return verb + "ed"
	}
}
