// Package logs reads the cutsweep log file for the CLI.
//
// Last returns the trailing lines of the file with bounded memory, and Follow
// polls for appended lines until its context is cancelled, starting over when
// the file is truncated or rotated. Both accept a Matcher so callers can narrow
// the output to a single sweep by its run id, in console or JSON format.
package logs
