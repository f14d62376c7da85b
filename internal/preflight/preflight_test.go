package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cutsweep/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, true)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), false)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, false)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckRoot_Empty(t *testing.T) {
	if CheckRoot("", false).Passed {
		t.Fatal("expected failure for empty root")
	}
}

func TestCheckBackupDir_NotYetCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup", "nested")
	result := CheckBackupDir(path)
	if !result.Passed {
		t.Fatalf("expected pass for creatable backup dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected detail: %q", result.Detail)
	}
}

func TestCheckBackupDir_Unset(t *testing.T) {
	if CheckBackupDir("").Passed {
		t.Fatal("expected failure for unset backup dir")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil, t.TempDir()); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Journal.Enabled = false
	root := t.TempDir()

	results := RunAll(&cfg, root)
	if len(results) != 1 {
		t.Fatalf("expected only the root check, got %d results", len(results))
	}
	if err := Err(results); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunAll_QuarantineAddsBackupCheck(t *testing.T) {
	cfg := config.Default()
	cfg.Journal.Enabled = false
	cfg.Cleanup.Mode = config.ModeQuarantine
	cfg.Paths.BackupDir = filepath.Join(t.TempDir(), "backup")

	results := RunAll(&cfg, t.TempDir())
	if len(results) != 2 || results[1].Name != "Backup directory" {
		t.Fatalf("unexpected results: %#v", results)
	}
}

func TestErr_ReportsFailures(t *testing.T) {
	cfg := config.Default()
	cfg.Journal.Enabled = false

	err := Err(RunAll(&cfg, filepath.Join(t.TempDir(), "missing")))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if !strings.Contains(err.Error(), "Library root") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckCache_ExistingReadOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "catalog.jsonl.zst")
	if err := os.WriteFile(path, []byte("x"), 0o444); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	result := CheckCache(path)
	if !result.Passed {
		t.Fatalf("expected pass for readable cache, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "read ok") {
		t.Fatalf("unexpected detail: %q", result.Detail)
	}
}

func TestCheckCache_MissingNeedsWritableDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "catalog.jsonl.zst")
	result := CheckCache(path)
	if !result.Passed {
		t.Fatalf("expected pass for creatable cache, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected detail: %q", result.Detail)
	}
}

func TestCheckCache_Directory(t *testing.T) {
	if CheckCache(t.TempDir()).Passed {
		t.Fatal("expected failure when cache path is a directory")
	}
}

func TestRunAll_ReadableCacheInReadOnlyDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Journal.Enabled = false
	cfg.Cleanup.DryRun = true
	cfg.Paths.CacheFile = filepath.Join(dir, "catalog.jsonl.zst")
	if err := os.WriteFile(cfg.Paths.CacheFile, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if err := Err(RunAll(&cfg, t.TempDir())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
