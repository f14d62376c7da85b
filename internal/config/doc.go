// Package config loads, normalizes, and validates cutsweep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CUTSWEEP_BACKUP_DIR. The Config type is constructed once at startup and
// passed explicitly to the scanner, the cleanup executor, and the journal so
// no component re-reads settings mid-run.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
