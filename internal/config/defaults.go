package config

import (
	"runtime"

	"cutsweep/internal/variant"
)

const (
	defaultConfigPath  = "~/.config/cutsweep/config.toml"
	defaultJournalPath = "~/.local/share/cutsweep/journal.db"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	defaultMode        = ModeRemove
)

// DefaultVideoExtensions lists extensions treated as video without consulting
// the system mime table.
var DefaultVideoExtensions = []string{
	".mkv", ".mp4", ".avi", ".m4v", ".mov", ".wmv", ".flv", ".webm",
	".ts", ".m2ts", ".mpg", ".mpeg", ".vob", ".ogv", ".rmvb", ".3gp",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			JournalPath: defaultJournalPath,
		},
		Scan: Scan{
			Extensions: append([]string(nil), DefaultVideoExtensions...),
		},
		Cleanup: Cleanup{
			Mode:            defaultMode,
			Workers:         runtime.NumCPU(),
			SidecarSuffixes: append([]string(nil), variant.DefaultSidecarSuffixes...),
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
