// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/output"
	"github.com/vidlens/vidlens/internal/pipeline"
)

// Explore-specific flag values.
var (
	exploreSource  string
	exploreChart   string
	exploreFilters map[string]string
	exploreSort    sortValue
	exploreWindow  string
	exploreDrill   []string
	exploreMetrics []string
	exploreFormat  string
	exploreOutput  string
)

// exploreCmd derives one chart and replays interactions on it.
var exploreCmd = &cobra.Command{
	Use:   "explore [dataset]",
	Short: "Explore one dashboard chart",
	Long: `Derive one chart's dataset from the video data and explore it: filter,
sort, zoom into a window and drill into segments, then write the resulting
view.

The data comes from a dataset export (.json, .jsonl or .xlsx) when one is
given, otherwise from the configured source or --source.

Examples:
  vidlens explore videos.json
  vidlens explore videos.json --chart performance --filter category=Music --sort views:asc
  vidlens explore --chart categories --drill Music --format dot
  vidlens explore videos.jsonl --chart trend --window 2026-03-01..2026-03-07 -f xlsx -o trend.xlsx

Filters and sorts name the chart's fields (performance rows carry title,
views, likes, coins, shares and category), not the raw export fields. The
trend chart covers the last 30 days, so its window bounds are dates
(YYYY-MM-DD) inside that range; bounds outside it leave the window empty.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().StringVar(&exploreSource, "source", "", "crawler backend base URL (overrides source.base_url)")
	exploreCmd.Flags().StringVarP(&exploreChart, "chart", "c", "", "chart id (default: the configured default chart)")
	exploreCmd.Flags().StringToStringVar(&exploreFilters, "filter", nil, "filter as field=value (repeatable)")
	exploreCmd.Flags().Var(&exploreSort, "sort", "sort rows by field, optionally :asc or :desc")
	exploreCmd.Flags().StringVar(&exploreWindow, "window", "", "zoom window as start:end, or start..end for timestamps")
	exploreCmd.Flags().StringArrayVar(&exploreDrill, "drill", nil, "segment label to drill into (repeatable, outermost first)")
	exploreCmd.Flags().StringSliceVar(&exploreMetrics, "metrics", nil, "comma-separated metric selection")
	exploreCmd.Flags().StringVarP(&exploreFormat, "format", "f", "", "output format: "+strings.Join(output.Names(), "|")+" (default: output_format)")
	exploreCmd.Flags().StringVarP(&exploreOutput, "output", "o", "", "output file path (default: stdout)")
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format := exploreFormat
	if format == "" {
		format = cfg.OutputFormat
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return exitError(ExitInvalidArgs, "vidlens: %v", err)
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	src, err := openSource(cfg, path, exploreSource)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	raw, err := src.Fetch(ctx)
	if err != nil {
		return exitError(ExitDataFailure, "vidlens: fetch %s (%v)", src.Name(), err)
	}

	ex, err := pipeline.Explore(ctx, cfg, raw, pipeline.ExploreOptions{
		Chart:   exploreChart,
		Drill:   exploreDrill,
		Filters: exploreFilters,
		Sort:    exploreSort.String(),
		Window:  exploreWindow,
		Metrics: exploreMetrics,
	})
	var de *explore.DrillError
	switch {
	case errors.As(err, &de):
		// The view stays at the last frame reached.
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "notice: %s\n", de.Error())
	case err != nil:
		return exitError(ExitInvalidArgs, "vidlens: %v", err)
	}
	slog.Debug("explored chart", "chart", ex.View.Chart, "rows", ex.View.Total, "depth", ex.View.Depth)

	return writeOutput(cmd.OutOrStdout(), exploreOutput, func(w io.Writer) error {
		return formatter.Format(ex.View, w)
	})
}

// writeOutput runs write against path, or stdout when path is empty.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := cmdFS.Create(path)
	if err != nil {
		return exitError(ExitInvalidArgs, "vidlens: cannot create output file %q (%v)", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
