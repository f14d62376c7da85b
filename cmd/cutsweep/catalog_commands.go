package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"cutsweep/internal/catalog"
	"cutsweep/internal/config"
	"cutsweep/internal/sweep"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Build and inspect the catalog cache",
	}

	catalogCmd.AddCommand(newCatalogBuildCommand(ctx))
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))

	return catalogCmd
}

func resolveCachePath(cfg *config.Config, flagValue string) (string, error) {
	path := strings.TrimSpace(flagValue)
	if path == "" {
		path = cfg.Paths.CacheFile
	}
	if path == "" {
		return "", errors.New("no catalog cache configured (set paths.cache_file or pass --cache)")
	}
	return config.ExpandPath(path)
}

func newCatalogBuildCommand(ctx *commandContext) *cobra.Command {
	var cacheFlag string

	cmd := &cobra.Command{
		Use:   "build <root>",
		Short: "Scan a library root and write the catalog cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cachePath, err := resolveCachePath(base, cacheFlag)
			if err != nil {
				return err
			}
			cfg := *base
			cfg.Paths.CacheFile = cachePath

			logger, err := newLogger(cmd, &cfg, false)
			if err != nil {
				return err
			}

			result, err := sweep.NewRunner(&cfg, logger, nil).BuildCatalog(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			if result.CacheErr != nil {
				return fmt.Errorf("write catalog cache: %w", result.CacheErr)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Cache", statusOK, cachePath, colorize))
			fmt.Fprintln(out, renderStatusLine("Entries", statusInfo, fmt.Sprintf("%d", result.Catalog.Len()), colorize))
			fmt.Fprintln(out, renderStatusLine("Files seen", statusInfo, fmt.Sprintf("%d", result.Stats.Files), colorize))
			if result.Stats.Unreadable > 0 {
				fmt.Fprintln(out, renderStatusLine("Unreadable", statusWarn, fmt.Sprintf("%d", result.Stats.Unreadable), colorize))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cacheFlag, "cache", "", "Catalog cache file (defaults to paths.cache_file)")
	return cmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	var cacheFlag string
	var filter string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the entries in the catalog cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cachePath, err := resolveCachePath(cfg, cacheFlag)
			if err != nil {
				return err
			}
			cat, err := catalog.LoadCache(cachePath)
			if err != nil {
				return fmt.Errorf("load catalog cache: %w", err)
			}

			needle := foldForMatch(strings.TrimSpace(filter))
			entries := make([]catalog.Entry, 0, cat.Len())
			for _, entry := range cat.Entries() {
				if needle != "" && !strings.Contains(foldForMatch(filepath.Base(entry.Path)), needle) {
					continue
				}
				entries = append(entries, entry)
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No catalog entries")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.Name, entry.Path})
			}
			fmt.Fprintln(out, renderTable([]column{col("Name"), col("Path")}, rows, false))
			return nil
		},
	}

	cmd.Flags().StringVar(&cacheFlag, "cache", "", "Catalog cache file (defaults to paths.cache_file)")
	cmd.Flags().StringVar(&filter, "filter", "", "Only show names containing this text")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// foldForMatch lowercases s in NFC form so a typed filter matches names stored
// decomposed on disk. It is only used for display filtering; catalog keys stay
// byte-exact.
func foldForMatch(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
