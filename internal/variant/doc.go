// Package variant derives alternate-release names for media files.
//
// A title released in two cuts is stored as "{stem}-C.{ext}" and
// "{stem}-UC.{ext}" next to (or instead of) the unsuffixed original. The
// helpers here split a file name into stem and extension, synthesize the two
// suffixed keys, and enumerate the sidecar files (images and info file) that
// belong to a stem. All functions are pure.
package variant
