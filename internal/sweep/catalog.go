package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cutsweep/internal/catalog"
	"cutsweep/internal/logging"
)

// CatalogResult describes how a catalog was obtained.
type CatalogResult struct {
	Catalog   *catalog.Catalog
	Stats     catalog.ScanStats
	FromCache bool
	CachePath string
	// CacheErr is set when the scan succeeded but the cache could not be written.
	CacheErr error
}

// BuildCatalog loads the catalog from the configured cache when it exists, and
// otherwise scans root and writes the cache. forceScan skips the cache read.
// A cache that exists but cannot be read is fatal.
func (r *Runner) BuildCatalog(ctx context.Context, root string, forceScan bool) (CatalogResult, error) {
	return r.buildCatalog(ctx, r.logger, root, forceScan)
}

func (r *Runner) buildCatalog(ctx context.Context, logger *slog.Logger, root string, forceScan bool) (CatalogResult, error) {
	cachePath := r.cfg.Paths.CacheFile
	result := CatalogResult{CachePath: cachePath}

	if cachePath != "" && !forceScan {
		exists, err := catalog.CacheExists(cachePath)
		if err != nil {
			return result, err
		}
		if exists {
			cat, err := catalog.LoadCache(cachePath)
			if err != nil {
				return result, fmt.Errorf("load catalog cache: %w", err)
			}
			logger.Info("catalog loaded from cache",
				logging.String(logging.FieldPath, cachePath),
				logging.Int("entries", cat.Len()),
			)
			result.Catalog = cat
			result.FromCache = true
			return result, nil
		}
	}

	start := time.Now()
	cat, stats, err := catalog.Scan(ctx, root, catalog.ScanOptions{
		Extensions:     r.cfg.Scan.Extensions,
		SkipDirs:       r.cfg.Scan.SkipDirs,
		FollowSymlinks: r.cfg.Scan.FollowSymlinks,
		Logger:         logger,
	})
	if err != nil {
		return result, fmt.Errorf("scan library: %w", err)
	}
	result.Catalog = cat
	result.Stats = stats
	logger.Info("library scanned",
		logging.String("root", root),
		logging.Int("files", stats.Files),
		logging.Int("videos", stats.Videos),
		logging.Int("entries", cat.Len()),
		logging.Duration("elapsed", time.Since(start)),
	)

	if cachePath != "" {
		if err := catalog.SaveCache(cachePath, cat); err != nil {
			result.CacheErr = err
			logging.WarnWithContext(logger, "failed to write catalog cache", "catalog_cache_write_failed",
				logging.String(logging.FieldPath, cachePath),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that the cache directory is writable"),
				logging.String(logging.FieldImpact, "next run will rescan the library"),
			)
		}
	}
	return result, nil
}
