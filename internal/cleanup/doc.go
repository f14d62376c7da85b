// Package cleanup applies removal plans to the filesystem.
//
// The Executor walks a plan's targets in order and hands each one to a
// Disposer: Remover deletes the file, Quarantine moves it under a backup
// directory mirroring its location in the library. Every target is attempted
// exactly once and independently of the others, so a locked sidecar never
// stops the primary file or the remaining sidecars from being processed. A
// target that is already gone is recorded as missing rather than failed,
// which keeps a second pass over the same plan harmless.
//
// In dry-run mode the executor reports what it would dispose of and never
// touches the filesystem.
package cleanup
