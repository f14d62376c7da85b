package variant

import "path/filepath"

// DefaultSidecarSuffixes is the fixed sidecar set appended to a stem.
var DefaultSidecarSuffixes = []string{"-thumb.jpg", "-fanart.jpg", "-poster.jpg", ".nfo"}

// Expander builds sidecar paths from a configured suffix list.
type Expander struct {
	suffixes []string
}

// NewExpander returns an Expander for suffixes, falling back to
// DefaultSidecarSuffixes when none are given.
func NewExpander(suffixes []string) Expander {
	if len(suffixes) == 0 {
		suffixes = DefaultSidecarSuffixes
	}
	return Expander{suffixes: append([]string(nil), suffixes...)}
}

// Sidecars returns dir/stem+suffix for every configured suffix, in order.
// Paths are produced whether or not the files exist.
func (e Expander) Sidecars(stem, dir string) []string {
	suffixes := e.suffixes
	if len(suffixes) == 0 {
		suffixes = DefaultSidecarSuffixes
	}
	out := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		out = append(out, filepath.Join(dir, stem+suffix))
	}
	return out
}

// Sidecars expands stem in dir using the default suffix set.
func Sidecars(stem, dir string) []string {
	return Expander{}.Sidecars(stem, dir)
}
