package preflight

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cutsweep/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for a sweep of root.
// Checks are only run when the corresponding feature is enabled.
func RunAll(cfg *config.Config, root string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Library root (always checked; writes only needed for live runs)
	results = append(results, CheckRoot(root, !cfg.Cleanup.DryRun))

	if cfg.Quarantine() && !cfg.Cleanup.DryRun {
		results = append(results, CheckBackupDir(cfg.Paths.BackupDir))
	}

	if cfg.Journal.Enabled {
		results = append(results, CheckParentWritable("Journal directory", filepath.Dir(cfg.Paths.JournalPath)))
	}

	if cfg.Paths.CacheFile != "" {
		results = append(results, CheckCache(cfg.Paths.CacheFile))
	}

	return results
}

// Err joins every failed result into one error, or returns nil when all passed.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return errors.New("preflight failed: " + strings.Join(failed, "; "))
}
