// Package journal records sweep runs and the disposal actions they performed
// in SQLite.
//
// The Store opens the database in WAL mode, creates the schema on first use,
// and refuses to open a database written by a different schema version. Each
// run row carries the root, mode, timing, and outcome counters; each action
// row records one target path and what happened to it. The journal is an
// audit trail only: nothing reads it back to undo a run.
//
// Schema changes bump schemaVersion in schema.go; users delete the database to
// adopt the new schema.
package journal
