package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCleanup(); err != nil {
		return err
	}
	if err := c.validateJournal(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCleanup() error {
	switch c.Cleanup.Mode {
	case ModeRemove:
	case ModeQuarantine:
		if strings.TrimSpace(c.Paths.BackupDir) == "" {
			return errors.New("paths.backup_dir must be set when cleanup.mode is \"quarantine\" (or export CUTSWEEP_BACKUP_DIR)")
		}
	default:
		return fmt.Errorf("cleanup.mode: unsupported value %q (want %q or %q)", c.Cleanup.Mode, ModeRemove, ModeQuarantine)
	}
	if c.Cleanup.Workers <= 0 {
		return errors.New("cleanup.workers must be positive")
	}
	for _, suffix := range c.Cleanup.SidecarSuffixes {
		if strings.TrimSpace(suffix) == "" {
			return errors.New("cleanup.sidecar_suffixes must not contain empty entries")
		}
		if strings.ContainsAny(suffix, `/\`) {
			return fmt.Errorf("cleanup.sidecar_suffixes: %q must not contain path separators", suffix)
		}
	}
	return nil
}

func (c *Config) validateJournal() error {
	if c.Journal.Enabled && strings.TrimSpace(c.Paths.JournalPath) == "" {
		return errors.New("paths.journal_path must be set when journal.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
