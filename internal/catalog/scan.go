package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"cutsweep/internal/logging"
)

// ScanOptions controls which files Scan catalogues.
type ScanOptions struct {
	// Extensions are lowercase, dot-prefixed video extensions. Files with other
	// extensions are still accepted when the system mime table maps them to a
	// video/* type.
	Extensions []string
	// SkipDirs are directory base names pruned from the walk (case-insensitive).
	SkipDirs []string
	// FollowSymlinks catalogues symlinks that resolve to regular files.
	FollowSymlinks bool
	Logger         *slog.Logger
}

// ScanStats summarizes a scan.
type ScanStats struct {
	Files       int `json:"files"`
	Videos      int `json:"videos"`
	SkippedDirs int `json:"skipped_dirs"`
	Unreadable  int `json:"unreadable"`
	Undecodable int `json:"undecodable"`
}

// Scan walks root and returns a catalog of the video files found. An
// inaccessible root is an error; unreadable subdirectories are logged and
// skipped.
func Scan(ctx context.Context, root string, opts ScanOptions) (*Catalog, ScanStats, error) {
	var stats ScanStats
	logger := logging.NewComponentLogger(opts.Logger, "scan")

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, stats, fmt.Errorf("resolve root %q: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, stats, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, stats, fmt.Errorf("root %s is not a directory", absRoot)
	}

	exts := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	skip := make(map[string]struct{}, len(opts.SkipDirs))
	for _, dir := range opts.SkipDirs {
		skip[strings.ToLower(dir)] = struct{}{}
	}

	var entries []Entry
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			stats.Unreadable++
			logging.WarnWithContext(logger, "skipping unreadable path", "scan_unreadable",
				logging.String(logging.FieldPath, path),
				logging.Error(walkErr),
				logging.String(logging.FieldErrorHint, "check directory permissions"),
				logging.String(logging.FieldImpact, "files below this path are not considered"),
			)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if _, ok := skip[strings.ToLower(d.Name())]; ok {
				stats.SkippedDirs++
				return filepath.SkipDir
			}
			return nil
		}
		if !isRegular(path, d, opts.FollowSymlinks) {
			return nil
		}
		stats.Files++
		if !IsVideo(d.Name(), exts) {
			return nil
		}
		stats.Videos++
		name := KeyFor(d.Name())
		if name == "" {
			stats.Undecodable++
			logger.Debug("file name is not valid UTF-8, cataloguing under empty key",
				logging.String(logging.FieldPath, path))
		}
		entries = append(entries, Entry{Name: name, Path: path})
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk %s: %w", absRoot, err)
	}

	logger.Debug("scan complete",
		logging.String("root", absRoot),
		logging.Int("files", stats.Files),
		logging.Int("videos", stats.Videos),
		logging.Int("unreadable", stats.Unreadable),
	)
	return New(entries), stats, nil
}

func isRegular(path string, d fs.DirEntry, followSymlinks bool) bool {
	mode := d.Type()
	if mode.IsRegular() {
		return true
	}
	if mode&fs.ModeSymlink == 0 || !followSymlinks {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsVideo reports whether name has a video extension. exts holds lowercase,
// dot-prefixed extensions; anything else falls back to the mime table, where
// only an explicit video/* type counts.
func IsVideo(name string, exts map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	if _, ok := exts[ext]; ok {
		return true
	}
	return strings.HasPrefix(mime.TypeByExtension(ext), "video/")
}
