// Package sweep coordinates one cleanup run over a library root.
//
// A run moves through fixed phases: preflight checks, the run lock (live runs
// only), catalog construction (from the cache when one exists, otherwise by
// scanning and writing the cache), then resolution and execution of every
// catalog entry on a bounded worker pool. Each entry is resolved against the
// immutable catalog snapshot and, when redundant, its plans are executed
// immediately by the same worker.
//
// Cancellation is cooperative: the pool stops scheduling entries once the
// context is done, but an entry whose plan has started executing finishes it.
// Entries that never started stay pending in the summary.
//
// When a journal store is supplied, the run and every action are recorded.
// Journal write failures are logged and never abort the run.
package sweep
