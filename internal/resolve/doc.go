// Package resolve decides which catalogued video files are redundant and turns
// each decision into removal plans.
//
// For an entry "{stem}.{ext}" the resolver looks up "{stem}-C.{ext}" and
// "{stem}-UC.{ext}" in the catalog:
//
//   - neither present: Keep.
//   - exactly one present: RemovePrimary, the unsuffixed entry is superseded.
//   - both present: RemoveConflictingVariant, the unsuffixed entry is removed
//     and so is the -C file; -UC is retained.
//
// Each plan lists the file itself followed by its sidecars, expanded from the
// file's own stem in the file's own directory. Decisions depend only on catalog
// membership, so entries may be resolved in any order or in parallel.
package resolve
