package variant

import "strings"

// Release suffixes.
const (
	SuffixC  = "C"
	SuffixUC = "UC"
)

// Keys holds the two alternate-release names derived from one file name.
type Keys struct {
	C  string
	UC string
}

// SplitName splits name at its last '.'. A name without a dot has an empty
// extension and the whole name as stem.
func SplitName(name string) (stem, ext string) {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// Join rebuilds a file name from stem and extension, omitting the dot when
// ext is empty.
func Join(stem, ext string) string {
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

// KeysFor returns the alternate-release keys for stem and ext.
func KeysFor(stem, ext string) Keys {
	return Keys{
		C:  Join(stem+"-"+SuffixC, ext),
		UC: Join(stem+"-"+SuffixUC, ext),
	}
}

// Derive splits name and returns its alternate-release keys.
func Derive(name string) Keys {
	return KeysFor(SplitName(name))
}
