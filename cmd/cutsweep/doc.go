// Package main hosts the cutsweep CLI entrypoint and command graph.
//
// The Cobra-based command tree runs sweeps over a library root, builds and
// inspects the catalog cache, browses the run journal, and scaffolds
// configuration. It centralizes configuration resolution and logger setup so
// subcommands only translate flags into calls on the internal packages.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
