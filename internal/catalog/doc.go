// Package catalog builds the per-run snapshot of video files that the sweep
// resolves against.
//
// A Catalog maps a file's base name to its absolute path. It is built once,
// either by walking a library root (Scan) or by reading a compressed cache
// file (LoadCache), and is read-only afterwards: there is no method that adds
// or removes entries, so every resolution in a run sees the same membership.
//
// # Cache format
//
// The cache is a zstd-compressed stream of JSON lines. Each line is an object
// holding a partial name→path mapping; SaveCache writes one entry per line and
// LoadCache merges every line it reads (last write wins). Reads take a shared
// flock on "<path>.lock", writes an exclusive one, and writes are atomic via a
// temporary file and rename.
package catalog
