package testsupport

import (
	"path/filepath"
	"testing"

	"cutsweep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The journal is disabled unless WithJournal is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.JournalPath = filepath.Join(base, "state", "journal.db")
	cfgVal.Paths.BackupDir = filepath.Join(base, "backup")
	cfgVal.Journal.Enabled = false
	cfgVal.Cleanup.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithJournal enables the SQLite journal under the test's temp directory.
func WithJournal() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = true
	}
}

// WithDryRun toggles dry-run mode.
func WithDryRun(dryRun bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cleanup.DryRun = dryRun
	}
}

// WithQuarantine switches the disposal mode to quarantine.
func WithQuarantine() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cleanup.Mode = config.ModeQuarantine
	}
}

// WithCacheFile points the catalog cache at a temp file.
func WithCacheFile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.CacheFile = filepath.Join(b.baseDir, "cache", "catalog.jsonl.zst")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Paths.JournalPath))
}
