package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cutsweep/internal/cleanup"
	"cutsweep/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect previous sweeps",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))

	return historyCmd
}

type runView struct {
	ID         string           `json:"id"`
	Root       string           `json:"root"`
	DryRun     bool             `json:"dry_run"`
	Mode       string           `json:"mode"`
	Status     string           `json:"status"`
	StartedAt  string           `json:"started_at"`
	FinishedAt string           `json:"finished_at,omitempty"`
	Counters   journal.Counters `json:"counters"`
	Error      string           `json:"error,omitempty"`
	Actions    []actionView     `json:"actions,omitempty"`
}

type actionView struct {
	Entry   string `json:"entry"`
	Outcome string `json:"outcome"`
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

func newRunView(run journal.Run) runView {
	view := runView{
		ID:        run.ID,
		Root:      run.Root,
		DryRun:    run.DryRun,
		Mode:      run.Mode,
		Status:    string(run.Status),
		StartedAt: formatTimestamp(run.StartedAt),
		Counters:  run.Counters,
		Error:     run.ErrorMessage,
	}
	if !run.FinishedAt.IsZero() {
		view.FinishedAt = formatTimestamp(run.FinishedAt)
	}
	return view
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sweeps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := requireJournal(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			views := make([]runView, 0, len(runs))
			for _, run := range runs {
				views = append(views, newRunView(run))
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), views)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No sweeps recorded")
				return nil
			}
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{
					shortID(v.ID),
					v.StartedAt,
					v.Status,
					yesNo(v.DryRun),
					strconv.Itoa(v.Counters.Redundant),
					strconv.Itoa(v.Counters.Removed),
					strconv.Itoa(v.Counters.Failed),
					v.Root,
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				col("ID"), col("Started"), statusCol("Status", runStatusTextKind), col("Dry Run"),
				numCol("Redundant"), numCol("Removed"), numCol("Failed"), col("Root"),
			}, rows, colorize))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the actions of one sweep",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := requireJournal(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.FindRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			actions, err := store.Actions(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			view := newRunView(*run)
			for _, a := range actions {
				view.Actions = append(view.Actions, actionView{
					Entry:   a.EntryName,
					Outcome: a.Outcome,
					Path:    a.Path,
					Kind:    a.Kind,
					Status:  a.Status,
					Error:   a.ErrorMessage,
				})
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), view)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Sweep "+view.ID, colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Root", statusInfo, view.Root, colorize))
			fmt.Fprintln(out, renderStatusLine("Mode", statusInfo, view.Mode, colorize))
			fmt.Fprintln(out, renderStatusLine("Dry run", statusInfo, yesNo(view.DryRun), colorize))
			fmt.Fprintln(out, renderStatusLine("Started", statusInfo, view.StartedAt, colorize))
			if view.FinishedAt != "" {
				fmt.Fprintln(out, renderStatusLine("Finished", statusInfo, view.FinishedAt, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Status", runStatusKind(run.Status), view.Status, colorize))
			if view.Error != "" {
				fmt.Fprintln(out, renderStatusLine("Error", statusError, view.Error, colorize))
			}

			if len(view.Actions) == 0 {
				fmt.Fprintln(out, "No actions recorded")
				return nil
			}
			rows := make([][]string, 0, len(view.Actions))
			for _, a := range view.Actions {
				detail := a.Error
				rows = append(rows, []string{
					a.Entry,
					a.Kind,
					a.Status,
					a.Path,
					detail,
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				col("Entry"), col("Kind"), statusCol("Status", actionStatusKind), col("Path"), col("Error"),
			}, rows, colorize))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func actionStatusKind(status string) statusKind {
	switch cleanup.Status(status) {
	case cleanup.StatusRemoved:
		return statusOK
	case cleanup.StatusFailed:
		return statusError
	default:
		return statusInfo
	}
}
