// Package preflight provides readiness checks for the filesystem paths a
// sweep depends on.
//
// The sweep runner calls RunAll before scanning. If any check fails, the run
// aborts before a single file is touched: a library root that cannot be
// written would otherwise produce a long list of per-file permission failures.
// Dry runs only need read access to the root.
//
// Each check is gated by its config toggle: the backup directory is only
// checked in quarantine mode and the journal directory only when the journal
// is enabled.
package preflight
