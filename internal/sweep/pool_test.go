package sweep

import (
	"context"
	"testing"

	"cutsweep/internal/catalog"
	"cutsweep/internal/cleanup"
	"cutsweep/internal/config"
	"cutsweep/internal/logging"
)

func TestSweepStopsSchedulingAfterCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Cleanup.Workers = 1
	runner := NewRunner(&cfg, logging.NewNop(), nil)

	cat := catalog.FromMap(map[string]string{
		"a.mkv":   "/lib/a.mkv",
		"a-C.mkv": "/lib/a-C.mkv",
		"b.mkv":   "/lib/b.mkv",
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := &Summary{RunID: "test", DryRun: true}
	runner.sweep(ctx, runner.logger, cat, cleanup.NewExecutor(nil, true, nil), summary)
	summary.tally()

	if summary.Counts.Pending != 3 {
		t.Fatalf("unexpected pending count: got %d want 3", summary.Counts.Pending)
	}
	if summary.Counts.WouldRemove != 0 {
		t.Fatalf("cancelled sweep executed %d targets", summary.Counts.WouldRemove)
	}
}

func TestSweepResolvesEveryEntry(t *testing.T) {
	cfg := config.Default()
	cfg.Cleanup.Workers = 4
	runner := NewRunner(&cfg, logging.NewNop(), nil)

	cat := catalog.FromMap(map[string]string{
		"a.mkv":    "/lib/a.mkv",
		"a-C.mkv":  "/lib/a-C.mkv",
		"a-UC.mkv": "/lib/a-UC.mkv",
		"b.mkv":    "/lib/b.mkv",
	})
	summary := &Summary{RunID: "test", DryRun: true}
	runner.sweep(context.Background(), runner.logger, cat, cleanup.NewExecutor(nil, true, nil), summary)
	summary.tally()

	if summary.Counts.Pending != 0 || summary.Counts.Kept != 3 || summary.Counts.Redundant != 1 {
		t.Fatalf("unexpected counts: %+v", summary.Counts)
	}
	if summary.Counts.WouldRemove != 10 {
		t.Fatalf("unexpected would_remove count: got %d want 10", summary.Counts.WouldRemove)
	}
	if got := len(summary.Redundant()); got != 1 {
		t.Fatalf("unexpected redundant entries: got %d want 1", got)
	}
}
