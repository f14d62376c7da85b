package sweep_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cutsweep/internal/catalog"
	"cutsweep/internal/cleanup"
	"cutsweep/internal/journal"
	"cutsweep/internal/logging"
	"cutsweep/internal/sweep"
	"cutsweep/internal/testsupport"
)

var library = []string{
	"films/movie.mkv",
	"films/movie-thumb.jpg",
	"films/movie-fanart.jpg",
	"films/movie-poster.jpg",
	"films/movie.nfo",
	"films/movie-C.mkv",
	"films/movie-C.nfo",
	"films/movie-UC.mkv",
	"shows/pilot.mp4",
	"shows/pilot.nfo",
	"shows/pilot-UC.mp4",
	"docs/solo.avi",
	"docs/solo.nfo",
}

func findEntry(t *testing.T, summary *sweep.Summary, name string) sweep.EntryReport {
	t.Helper()
	for _, e := range summary.Entries {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("entry %s not in summary", name)
	return sweep.EntryReport{}
}

func TestRunDryRunLeavesLibraryIntact(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDryRun(true))
	root := t.TempDir()
	paths := testsupport.WriteLibrary(t, root, library...)

	summary, err := sweep.NewRunner(cfg, logging.NewNop(), nil).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, path := range paths {
		testsupport.RequireExists(t, path)
	}
	if summary.Status != journal.RunCompleted {
		t.Fatalf("unexpected status: got %q want %q", summary.Status, journal.RunCompleted)
	}
	if summary.Counts.Catalogued != 6 {
		t.Fatalf("unexpected catalogued count: got %d want 6", summary.Counts.Catalogued)
	}
	if summary.Counts.Redundant != 2 {
		t.Fatalf("unexpected redundant count: got %d want 2", summary.Counts.Redundant)
	}
	// movie.mkv + 4 sidecars, movie-C.mkv + 4 sidecars, pilot.mp4 + 4 sidecars
	if summary.Counts.WouldRemove != 15 {
		t.Fatalf("unexpected would_remove count: got %d want 15", summary.Counts.WouldRemove)
	}
	if summary.Counts.Removed != 0 {
		t.Fatalf("dry run removed %d files", summary.Counts.Removed)
	}
	if _, err := os.Stat(filepath.Join(root, sweep.LockFileName)); !os.IsNotExist(err) {
		t.Fatalf("dry run must not create a lock file (err=%v)", err)
	}
}

func TestRunRemovesRedundantFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := t.TempDir()
	paths := testsupport.WriteLibrary(t, root, library...)

	summary, err := sweep.NewRunner(cfg, logging.NewNop(), nil).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, name := range []string{
		"films/movie.mkv", "films/movie-thumb.jpg", "films/movie-fanart.jpg", "films/movie-poster.jpg",
		"films/movie.nfo", "films/movie-C.mkv", "films/movie-C.nfo", "shows/pilot.mp4", "shows/pilot.nfo",
	} {
		testsupport.RequireMissing(t, paths[name])
	}
	for _, name := range []string{"films/movie-UC.mkv", "shows/pilot-UC.mp4", "docs/solo.avi", "docs/solo.nfo"} {
		testsupport.RequireExists(t, paths[name])
	}

	movie := findEntry(t, summary, "movie.mkv")
	if movie.Outcome != "remove_conflicting_variant" || movie.State != cleanup.StateCompleted {
		t.Fatalf("unexpected movie report: %+v", movie)
	}
	pilot := findEntry(t, summary, "pilot.mp4")
	if pilot.Outcome != "remove_primary" {
		t.Fatalf("unexpected pilot outcome: %q", pilot.Outcome)
	}
	if solo := findEntry(t, summary, "solo.avi"); solo.State != cleanup.StateKept {
		t.Fatalf("unexpected solo state: %q", solo.State)
	}
	if summary.Counts.Failed != 0 {
		t.Fatalf("unexpected failures: %d", summary.Counts.Failed)
	}
	if _, err := os.Stat(filepath.Join(root, sweep.LockFileName)); !os.IsNotExist(err) {
		t.Fatalf("lock file left behind (err=%v)", err)
	}
}

func TestRunRemovesSidecarsOfDecomposedNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := t.TempDir()
	const stem = "Ame\u0301lie"
	paths := testsupport.WriteLibrary(t, root,
		"films/"+stem+".mkv",
		"films/"+stem+"-UC.mkv",
		"films/"+stem+".nfo",
		"films/"+stem+"-poster.jpg",
	)

	summary, err := sweep.NewRunner(cfg, logging.NewNop(), nil).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, name := range []string{"films/" + stem + ".mkv", "films/" + stem + ".nfo", "films/" + stem + "-poster.jpg"} {
		testsupport.RequireMissing(t, paths[name])
	}
	testsupport.RequireExists(t, paths["films/"+stem+"-UC.mkv"])

	entry := findEntry(t, summary, stem+".mkv")
	if entry.State != cleanup.StateCompleted {
		t.Fatalf("unexpected state: %q", entry.State)
	}
	if summary.Counts.Removed != 3 {
		t.Fatalf("unexpected removed count: got %d want 3", summary.Counts.Removed)
	}
}

func TestRunKeepsNameWhenAlternateUsesOtherNormalization(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := t.TempDir()
	paths := testsupport.WriteLibrary(t, root,
		"films/Ame\u0301lie.mkv",
		"films/Am\u00e9lie-UC.mkv",
	)

	summary, err := sweep.NewRunner(cfg, logging.NewNop(), nil).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, path := range paths {
		testsupport.RequireExists(t, path)
	}
	if summary.Counts.Catalogued != 2 || summary.Counts.Redundant != 0 {
		t.Fatalf("unexpected counts: %+v", summary.Counts)
	}
}

func TestRunQuarantineMovesFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithQuarantine())
	root := t.TempDir()
	paths := testsupport.WriteLibrary(t, root, "shows/pilot.mp4", "shows/pilot-C.mp4", "shows/pilot-poster.jpg")

	if _, err := sweep.NewRunner(cfg, logging.NewNop(), nil).Run(context.Background(), root); err != nil {
		t.Fatalf("Run: %v", err)
	}
	testsupport.RequireMissing(t, paths["shows/pilot.mp4"])
	testsupport.RequireExists(t, paths["shows/pilot-C.mp4"])
	testsupport.RequireExists(t, filepath.Join(cfg.Paths.BackupDir, "shows", "pilot.mp4"))
	testsupport.RequireExists(t, filepath.Join(cfg.Paths.BackupDir, "shows", "pilot-poster.jpg"))
}

func TestRunLockedRootFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := t.TempDir()
	testsupport.WriteLibrary(t, root, "movie.mkv", "movie-C.mkv")

	lock := lockRoot(t, root)
	defer lock()

	_, err := sweep.NewRunner(cfg, logging.NewNop(), nil).Run(context.Background(), root)
	if !errors.Is(err, sweep.ErrRootLocked) {
		t.Fatalf("expected ErrRootLocked, got %v", err)
	}
	testsupport.RequireExists(t, filepath.Join(root, "movie.mkv"))
}

func TestRunMissingRootIsFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := sweep.NewRunner(cfg, logging.NewNop(), nil).Run(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestRunCancelledBeforeScan(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := t.TempDir()
	paths := testsupport.WriteLibrary(t, root, "movie.mkv", "movie-C.mkv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sweep.NewRunner(cfg, logging.NewNop(), nil).Run(ctx, root)
	if err == nil {
		t.Fatal("expected scan to fail on a cancelled context")
	}
	testsupport.RequireExists(t, paths["movie.mkv"])
}

func TestRunUsesExistingCache(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCacheFile(), testsupport.WithDryRun(true))
	root := t.TempDir()
	paths := testsupport.WriteLibrary(t, root, "movie.mkv")

	// The cache claims a -UC variant exists that the tree does not have.
	cached := catalog.FromMap(map[string]string{
		"movie.mkv":    paths["movie.mkv"],
		"movie-UC.mkv": filepath.Join(root, "movie-UC.mkv"),
	})
	if err := catalog.SaveCache(cfg.Paths.CacheFile, cached); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}

	summary, err := sweep.NewRunner(cfg, logging.NewNop(), nil).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !summary.FromCache {
		t.Fatal("expected catalog to come from cache")
	}
	if summary.Counts.Redundant != 1 {
		t.Fatalf("unexpected redundant count: got %d want 1", summary.Counts.Redundant)
	}
}

func TestRunWritesCacheAfterScan(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCacheFile(), testsupport.WithDryRun(true))
	root := t.TempDir()
	testsupport.WriteLibrary(t, root, "a.mkv", "b.mp4")

	summary, err := sweep.NewRunner(cfg, logging.NewNop(), nil).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FromCache {
		t.Fatal("first run must scan")
	}
	cat, err := catalog.LoadCache(cfg.Paths.CacheFile)
	if err != nil {
		t.Fatalf("LoadCache: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("unexpected cached entries: got %d want 2", cat.Len())
	}
}

func TestRunCorruptCacheIsFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCacheFile(), testsupport.WithDryRun(true))
	root := t.TempDir()
	testsupport.WriteFile(t, cfg.Paths.CacheFile, 64)

	_, err := sweep.NewRunner(cfg, logging.NewNop(), nil).Run(context.Background(), root)
	if !errors.Is(err, catalog.ErrCorruptCache) {
		t.Fatalf("expected ErrCorruptCache, got %v", err)
	}
}

func TestRunRecordsJournal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithJournal())
	store := testsupport.MustOpenJournal(t, cfg)
	root := t.TempDir()
	testsupport.WriteLibrary(t, root, "movie.mkv", "movie.nfo", "movie-C.mkv")

	summary, err := sweep.NewRunner(cfg, logging.NewNop(), store).Run(context.Background(), root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	ctx := context.Background()
	run, err := store.GetRun(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != journal.RunCompleted || run.Counters.Removed != 2 || run.Counters.Missing != 3 {
		t.Fatalf("unexpected run record: %+v", run)
	}
	actions, err := store.Actions(ctx, summary.RunID)
	if err != nil {
		t.Fatalf("Actions: %v", err)
	}
	if len(actions) != 5 {
		t.Fatalf("unexpected action count: got %d want 5", len(actions))
	}
	if actions[0].Path != filepath.Join(root, "movie.mkv") || actions[0].Status != string(cleanup.StatusRemoved) {
		t.Fatalf("unexpected first action: %+v", actions[0])
	}
}
