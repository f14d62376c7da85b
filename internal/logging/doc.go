// Package logging assembles structured slog loggers and formatting helpers used
// across cutsweep.
//
// It owns the console/JSON handlers and the level routing that sends routine
// progress to stdout while warnings and errors land on stderr. An optional log
// file receives every record. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same keys and routing.
package logging
