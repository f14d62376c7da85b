package cleanup_test

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"cutsweep/internal/cleanup"
	"cutsweep/internal/testsupport"
)

func TestQuarantineMovesUnderBackupDir(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "library")
	backup := filepath.Join(base, "backup")
	path := testsupport.WriteLibrary(t, root, "films/movie.mkv")["films/movie.mkv"]

	q, err := cleanup.NewQuarantine(root, backup)
	if err != nil {
		t.Fatalf("NewQuarantine: %v", err)
	}
	if err := q.Dispose(context.Background(), path); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	testsupport.RequireMissing(t, path)
	testsupport.RequireExists(t, filepath.Join(backup, "films", "movie.mkv"))
}

func TestQuarantineKeepsEarlierCopies(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "library")
	backup := filepath.Join(base, "backup")
	testsupport.WriteLibrary(t, backup, "movie.nfo")
	path := testsupport.WriteLibrary(t, root, "movie.nfo")["movie.nfo"]

	q, err := cleanup.NewQuarantine(root, backup)
	if err != nil {
		t.Fatalf("NewQuarantine: %v", err)
	}
	if err := q.Dispose(context.Background(), path); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	testsupport.RequireExists(t, filepath.Join(backup, "movie.nfo"))
	testsupport.RequireExists(t, filepath.Join(backup, "movie.nfo.1"))
}

func TestQuarantineMissingSourceIsNotExist(t *testing.T) {
	base := t.TempDir()
	q, err := cleanup.NewQuarantine(filepath.Join(base, "library"), filepath.Join(base, "backup"))
	if err != nil {
		t.Fatalf("NewQuarantine: %v", err)
	}
	err = q.Dispose(context.Background(), filepath.Join(base, "library", "gone.mkv"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestNewQuarantineRejectsBackupInsideRoot(t *testing.T) {
	root := t.TempDir()
	if _, err := cleanup.NewQuarantine(root, filepath.Join(root, "trash")); err == nil {
		t.Fatal("expected error for backup dir inside root")
	}
	if _, err := cleanup.NewQuarantine(root, ""); err == nil {
		t.Fatal("expected error for empty backup dir")
	}
}
