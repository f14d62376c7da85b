package cleanup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cutsweep/internal/fileutil"
)

// Disposer gets rid of one path. Implementations must return an error
// satisfying errors.Is(err, fs.ErrNotExist) when the path does not exist.
type Disposer interface {
	Dispose(ctx context.Context, path string) error
	// Verb describes the action in log lines ("remove", "quarantine").
	Verb() string
}

// Remover deletes files.
type Remover struct{}

func (Remover) Dispose(_ context.Context, path string) error {
	return os.Remove(path)
}

func (Remover) Verb() string { return "remove" }

// Quarantine moves files under BackupDir, keeping their path relative to Root.
// Paths outside Root keep their full absolute layout below BackupDir.
type Quarantine struct {
	Root      string
	BackupDir string
}

// NewQuarantine validates the directories and returns a Quarantine disposer.
func NewQuarantine(root, backupDir string) (*Quarantine, error) {
	root = strings.TrimSpace(root)
	backupDir = strings.TrimSpace(backupDir)
	if backupDir == "" {
		return nil, fmt.Errorf("quarantine: backup directory not configured")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("quarantine: resolve root: %w", err)
	}
	absBackup, err := filepath.Abs(backupDir)
	if err != nil {
		return nil, fmt.Errorf("quarantine: resolve backup dir: %w", err)
	}
	if rel, err := filepath.Rel(absRoot, absBackup); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("quarantine: backup dir %s must not be inside the library root %s", absBackup, absRoot)
	}
	return &Quarantine{Root: absRoot, BackupDir: absBackup}, nil
}

func (q *Quarantine) Dispose(_ context.Context, path string) error {
	if _, err := os.Lstat(path); err != nil {
		return err
	}
	dst, err := fileutil.UniquePath(q.Destination(path))
	if err != nil {
		return fmt.Errorf("choose quarantine destination: %w", err)
	}
	return fileutil.MoveFile(path, dst)
}

func (q *Quarantine) Verb() string { return "quarantine" }

// Destination returns where path would be moved to, before collision handling.
func (q *Quarantine) Destination(path string) string {
	rel, err := filepath.Rel(q.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = strings.TrimPrefix(filepath.Clean(path), string(filepath.Separator))
	}
	return filepath.Join(q.BackupDir, rel)
}
