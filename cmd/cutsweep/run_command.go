package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cutsweep/internal/cleanup"
	"cutsweep/internal/config"
	"cutsweep/internal/journal"
	"cutsweep/internal/sweep"
)

type runOptions struct {
	dryRun    bool
	cacheFile string
	backupDir string
	mode      string
	workers   int
	json      bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <root>",
		Short: "Remove redundant files below a library root",
		Long: "Catalog every video below <root>, then remove each file that has a -C or -UC\n" +
			"alternate together with its sidecars. When both alternates exist the -C file\n" +
			"is removed as well and the -UC file is kept.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyRunOverrides(cmd, base, opts)
			if err != nil {
				return err
			}

			logger, err := newLogger(cmd, cfg, opts.json)
			if err != nil {
				return err
			}
			store, err := openJournal(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := sweep.NewRunner(cfg, logger, store).Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			renderRunSummary(cmd.OutOrStdout(), summary, shouldColorize(cmd.OutOrStdout()))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "Report what would be removed without touching files")
	flags.StringVar(&opts.cacheFile, "cache", "", "Catalog cache file (loaded when present, written after a scan)")
	flags.StringVar(&opts.backupDir, "backup-dir", "", "Move files here instead of deleting them")
	flags.StringVar(&opts.mode, "mode", "", "Disposal mode: remove or quarantine")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "Number of parallel workers")
	flags.BoolVar(&opts.json, "json", false, "Print a machine-readable summary")
	return cmd
}

// applyRunOverrides copies cfg and applies the flags the user set. Setting
// --backup-dir without --mode implies quarantine mode.
func applyRunOverrides(cmd *cobra.Command, cfg *config.Config, opts runOptions) (*config.Config, error) {
	out := *cfg
	flags := cmd.Flags()

	if flags.Changed("dry-run") {
		out.Cleanup.DryRun = opts.dryRun
	}
	if flags.Changed("cache") {
		path, err := config.ExpandPath(strings.TrimSpace(opts.cacheFile))
		if err != nil {
			return nil, fmt.Errorf("resolve cache path: %w", err)
		}
		out.Paths.CacheFile = path
	}
	if flags.Changed("backup-dir") {
		path, err := config.ExpandPath(strings.TrimSpace(opts.backupDir))
		if err != nil {
			return nil, fmt.Errorf("resolve backup dir: %w", err)
		}
		out.Paths.BackupDir = path
		if !flags.Changed("mode") {
			out.Cleanup.Mode = config.ModeQuarantine
		}
	}
	if flags.Changed("mode") {
		out.Cleanup.Mode = strings.ToLower(strings.TrimSpace(opts.mode))
	}
	if flags.Changed("workers") {
		out.Cleanup.Workers = opts.workers
	}

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := out.EnsureDirectories(); err != nil {
		return nil, err
	}
	return &out, nil
}

func renderRunSummary(w io.Writer, summary *sweep.Summary, colorize bool) {
	redundant := summary.Redundant()
	if len(redundant) > 0 {
		rows := make([][]string, 0, len(redundant))
		for _, entry := range redundant {
			rows = append(rows, []string{
				entry.Name,
				entry.Outcome,
				strconv.Itoa(len(entry.Targets)),
				string(entry.State),
				entry.Path,
			})
		}
		fmt.Fprintln(w, renderTable([]column{
			col("File"), col("Outcome"), numCol("Targets"), statusCol("State", entryStateKind), col("Path"),
		}, rows, colorize))
	}

	for _, line := range renderSectionHeader("Sweep "+shortID(summary.RunID), colorize) {
		fmt.Fprintln(w, line)
	}
	c := summary.Counts
	source := "scan"
	if summary.FromCache {
		source = "cache"
	}
	fmt.Fprintln(w, renderStatusLine("Root", statusInfo, summary.Root, colorize))
	fmt.Fprintln(w, renderStatusLine("Catalog", statusInfo, fmt.Sprintf("%d videos (from %s)", c.Catalogued, source), colorize))
	fmt.Fprintln(w, renderStatusLine("Dry run", statusInfo, yesNo(summary.DryRun), colorize))
	fmt.Fprintln(w, renderStatusLine("Redundant", statusInfo, strconv.Itoa(c.Redundant), colorize))
	if summary.DryRun {
		fmt.Fprintln(w, renderStatusLine("Would remove", statusInfo, strconv.Itoa(c.WouldRemove), colorize))
	} else {
		fmt.Fprintln(w, renderStatusLine(disposedLabel(summary.Mode), statusOK, strconv.Itoa(c.Removed), colorize))
		fmt.Fprintln(w, renderStatusLine("Already gone", statusInfo, strconv.Itoa(c.Missing), colorize))
	}
	failKind := statusOK
	if c.Failed > 0 {
		failKind = statusError
	}
	fmt.Fprintln(w, renderStatusLine("Failed", failKind, strconv.Itoa(c.Failed), colorize))
	if c.Pending > 0 {
		fmt.Fprintln(w, renderStatusLine("Not processed", statusWarn, strconv.Itoa(c.Pending), colorize))
	}
	fmt.Fprintln(w, renderStatusLine("Status", runStatusKind(summary.Status), string(summary.Status), colorize))
	fmt.Fprintln(w, renderStatusLine("Elapsed", statusInfo, summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond).String(), colorize))
}

func disposedLabel(mode string) string {
	if mode == config.ModeQuarantine {
		return "Quarantined"
	}
	return "Removed"
}

func runStatusKind(status journal.RunStatus) statusKind {
	switch status {
	case journal.RunCompleted:
		return statusOK
	case journal.RunPartiallyFailed, journal.RunCancelled:
		return statusWarn
	case journal.RunFailed:
		return statusError
	default:
		return statusInfo
	}
}

func runStatusTextKind(status string) statusKind {
	return runStatusKind(journal.RunStatus(status))
}

func entryStateKind(state string) statusKind {
	switch cleanup.State(state) {
	case cleanup.StateCompleted:
		return statusOK
	case cleanup.StatePartiallyFailed:
		return statusError
	case cleanup.StatePending:
		return statusWarn
	default:
		return statusInfo
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
