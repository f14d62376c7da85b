package catalog

import (
	"sort"
	"unicode/utf8"
)

// Entry is one catalogued video file.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Catalog is an immutable name → path snapshot.
type Catalog struct {
	entries map[string]string
}

// New builds a catalog from entries keyed by KeyFor(name); when two entries
// share a key the later one wins.
func New(entries []Entry) *Catalog {
	c := &Catalog{entries: make(map[string]string, len(entries))}
	for _, e := range entries {
		c.entries[KeyFor(e.Name)] = e.Path
	}
	return c
}

// FromMap builds a catalog from a name → path map. The map is copied.
func FromMap(m map[string]string) *Catalog {
	c := &Catalog{entries: make(map[string]string, len(m))}
	for name, path := range m {
		c.entries[KeyFor(name)] = path
	}
	return c
}

// KeyFor returns the catalog key for a file name: the name byte for byte, or
// "" when it is not valid UTF-8. Names that differ only in Unicode
// normalization are distinct files and stay distinct keys.
func KeyFor(name string) string {
	if !utf8.ValidString(name) {
		return ""
	}
	return name
}

// Len reports the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Lookup returns the path catalogued under name.
func (c *Catalog) Lookup(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	path, ok := c.entries[KeyFor(name)]
	return path, ok
}

// Has reports whether name is catalogued.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Entries returns every entry sorted by name.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, len(c.entries))
	for name, path := range c.entries {
		out = append(out, Entry{Name: name, Path: path})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
