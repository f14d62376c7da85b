package sweep

import (
	"time"

	"cutsweep/internal/catalog"
	"cutsweep/internal/cleanup"
	"cutsweep/internal/journal"
)

// TargetReport is the outcome of one disposal target.
type TargetReport struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// EntryReport is the outcome of one catalog entry.
type EntryReport struct {
	Name    string         `json:"name"`
	Path    string         `json:"path"`
	Outcome string         `json:"outcome"`
	State   cleanup.State  `json:"state"`
	Targets []TargetReport `json:"targets,omitempty"`
}

// Counts aggregates a run.
type Counts struct {
	Catalogued  int `json:"catalogued"`
	Kept        int `json:"kept"`
	Redundant   int `json:"redundant"`
	Removed     int `json:"removed"`
	WouldRemove int `json:"would_remove"`
	Missing     int `json:"missing"`
	Failed      int `json:"failed"`
	Pending     int `json:"pending"`
}

// Summary is the result of a run.
type Summary struct {
	RunID      string            `json:"run_id"`
	Root       string            `json:"root"`
	DryRun     bool              `json:"dry_run"`
	Mode       string            `json:"mode"`
	Status     journal.RunStatus `json:"status"`
	FromCache  bool              `json:"from_cache"`
	Scan       catalog.ScanStats `json:"scan"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Counts     Counts            `json:"counts"`
	Entries    []EntryReport     `json:"entries"`
}

// Redundant returns the entries that were scheduled for removal.
func (s *Summary) Redundant() []EntryReport {
	var out []EntryReport
	for _, e := range s.Entries {
		if e.State != cleanup.StateKept && e.State != cleanup.StatePending {
			out = append(out, e)
		}
	}
	return out
}

func (s *Summary) tally() {
	var c Counts
	c.Catalogued = len(s.Entries)
	for _, e := range s.Entries {
		switch e.State {
		case cleanup.StateKept:
			c.Kept++
		case cleanup.StatePending:
			c.Pending++
		default:
			c.Redundant++
		}
		for _, t := range e.Targets {
			switch cleanup.Status(t.Status) {
			case cleanup.StatusRemoved:
				c.Removed++
			case cleanup.StatusWouldRemove:
				c.WouldRemove++
			case cleanup.StatusMissing:
				c.Missing++
			case cleanup.StatusFailed:
				c.Failed++
			}
		}
	}
	s.Counts = c
}

func (s *Summary) journalCounters() journal.Counters {
	removed := s.Counts.Removed
	if s.DryRun {
		removed = s.Counts.WouldRemove
	}
	return journal.Counters{
		Catalogued: s.Counts.Catalogued,
		Redundant:  s.Counts.Redundant,
		Removed:    removed,
		Missing:    s.Counts.Missing,
		Failed:     s.Counts.Failed,
	}
}

func targetReports(results []cleanup.Result) []TargetReport {
	var out []TargetReport
	for _, r := range results {
		for _, a := range r.Actions {
			report := TargetReport{Path: a.Target.Path, Kind: string(a.Target.Kind), Status: string(a.Status)}
			if a.Status == cleanup.StatusFailed && a.Err != nil {
				report.Error = a.Err.Error()
			}
			out = append(out, report)
		}
	}
	return out
}
