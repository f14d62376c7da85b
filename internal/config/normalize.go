package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"cutsweep/internal/variant"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeCleanup()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.BackupDir) == "" {
		if value, ok := os.LookupEnv("CUTSWEEP_BACKUP_DIR"); ok {
			c.Paths.BackupDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.CacheFile, err = expandPath(strings.TrimSpace(c.Paths.CacheFile)); err != nil {
		return fmt.Errorf("paths.cache_file: %w", err)
	}
	if c.Paths.BackupDir, err = expandPath(strings.TrimSpace(c.Paths.BackupDir)); err != nil {
		return fmt.Errorf("paths.backup_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.JournalPath) == "" {
		c.Paths.JournalPath = defaultJournalPath
	}
	if c.Paths.JournalPath, err = expandPath(strings.TrimSpace(c.Paths.JournalPath)); err != nil {
		return fmt.Errorf("paths.journal_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	exts := make([]string, 0, len(c.Scan.Extensions))
	seen := make(map[string]struct{}, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = append(exts, DefaultVideoExtensions...)
	}
	c.Scan.Extensions = exts

	dirs := c.Scan.SkipDirs[:0]
	for _, dir := range c.Scan.SkipDirs {
		if trimmed := strings.TrimSpace(dir); trimmed != "" {
			dirs = append(dirs, trimmed)
		}
	}
	c.Scan.SkipDirs = dirs
}

func (c *Config) normalizeCleanup() {
	c.Cleanup.Mode = strings.ToLower(strings.TrimSpace(c.Cleanup.Mode))
	if c.Cleanup.Mode == "" {
		c.Cleanup.Mode = defaultMode
	}
	if c.Cleanup.Workers <= 0 {
		c.Cleanup.Workers = runtime.NumCPU()
	}
	if len(c.Cleanup.SidecarSuffixes) == 0 {
		c.Cleanup.SidecarSuffixes = append([]string(nil), variant.DefaultSidecarSuffixes...)
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
