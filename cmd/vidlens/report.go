// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vidlens/vidlens/internal/pipeline"
	"github.com/vidlens/vidlens/internal/report"
	"github.com/vidlens/vidlens/internal/store"
)

// Report-specific flag values.
var (
	reportKind     string
	reportStart    string
	reportSections string
	reportFormat   string
	reportOutput   string
	reportSource   string
	reportSave     bool
)

// reportCmd is the parent command for the report center.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate and manage daily and weekly reports",
	Long: `Generate daily and weekly reports over the video data and manage the
reports saved in the store.

Sections: ` + strings.Join(report.DefaultOrder, ", ") + `.`,
}

// reportGenerateCmd generates one report.
var reportGenerateCmd = &cobra.Command{
	Use:   "generate [dataset]",
	Short: "Generate a report",
	Long: `Generate a daily or weekly report. The default period is yesterday (daily)
or the previous Monday to Sunday (weekly), in UTC.

Examples:
  vidlens report generate
  vidlens report generate videos.json --kind weekly --start 2026-03-02
  vidlens report generate --sections summary,hot-videos --format markdown -o daily.md
  vidlens report generate --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReportGenerate,
}

// reportListCmd lists saved reports.
var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports",
	Args:  cobra.NoArgs,
	RunE:  runReportList,
}

// reportShowCmd prints a saved report.
var reportShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportShow,
}

// reportDeleteCmd deletes a saved report.
var reportDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportDelete,
}

func init() {
	reportGenerateCmd.Flags().StringVar(&reportKind, "kind", "daily", "report kind: daily or weekly")
	reportGenerateCmd.Flags().StringVar(&reportStart, "start", "", "first day of the period as YYYY-MM-DD")
	reportGenerateCmd.Flags().StringVar(&reportSections, "sections", "", "comma-separated list of report sections to include")
	reportGenerateCmd.Flags().StringVarP(&reportFormat, "format", "f", report.FormatText, "output format: text, markdown or json")
	reportGenerateCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file path (default: stdout)")
	reportGenerateCmd.Flags().StringVar(&reportSource, "source", "", "crawler backend base URL (overrides source.base_url)")
	reportGenerateCmd.Flags().BoolVar(&reportSave, "save", false, "save the report to the store")

	reportShowCmd.Flags().StringVarP(&reportFormat, "format", "f", report.FormatText, "output format: text, markdown or json")

	reportCmd.AddCommand(reportGenerateCmd)
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportDeleteCmd)
}

func runReportGenerate(cmd *cobra.Command, args []string) error {
	kind, err := report.ParseKind(reportKind)
	if err != nil {
		return exitError(ExitInvalidArgs, "vidlens: %v", err)
	}
	now := time.Now()
	period := report.DefaultPeriod(kind, now)
	if reportStart != "" {
		start, err := time.Parse(time.DateOnly, reportStart)
		if err != nil {
			return exitError(ExitInvalidArgs, "vidlens: invalid --start %q (want YYYY-MM-DD)", reportStart)
		}
		period = report.PeriodFor(kind, start)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	src, err := openSource(cfg, path, reportSource)
	if err != nil {
		return err
	}
	raw, err := src.Fetch(cmd.Context())
	if err != nil {
		return exitError(ExitDataFailure, "vidlens: fetch %s (%v)", src.Name(), err)
	}
	videos, invalid, dups := pipeline.Prepare(raw)
	slog.Debug("videos prepared", "videos", videos.Len(), "invalid", invalid, "duplicates", dups)

	var sections []string
	if reportSections != "" {
		for _, s := range strings.Split(reportSections, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sections = append(sections, s)
			}
		}
	}
	rep, err := report.Generate(videos, report.Options{Period: period, Sections: sections, Now: now})
	if err != nil {
		return exitError(ExitInvalidArgs, "vidlens: %v", err)
	}

	if reportSave {
		st, err := openStore(cfg)
		if err != nil {
			return exitError(ExitUnavailable, "vidlens: store unavailable (%v)", err)
		}
		defer func() { _ = st.Close() }()
		if err := st.SaveReport(rep); err != nil {
			return fmt.Errorf("vidlens: save report: %w", err)
		}
		slog.Info("report saved", "id", rep.ID)
	}

	return writeOutput(cmd.OutOrStdout(), reportOutput, func(w io.Writer) error {
		return renderReport(w, rep, reportFormat, reportOutput != "")
	})
}

// renderReport renders rep, stripping color when writing to a file.
func renderReport(w io.Writer, rep *report.Report, format string, plain bool) error {
	if !plain {
		return report.Render(w, rep, format)
	}
	var b strings.Builder
	if err := report.Render(&b, rep, format); err != nil {
		return err
	}
	_, err := io.WriteString(w, report.StripANSI(b.String()))
	return err
}

// withStore opens the configured store for the duration of fn.
func withStore(fn func(*store.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return exitError(ExitUnavailable, "vidlens: store unavailable (%v)", err)
	}
	defer func() { _ = st.Close() }()
	return fn(st)
}

func runReportList(cmd *cobra.Command, _ []string) error {
	return withStore(func(st *store.Store) error {
		metas, err := st.ListReports()
		if err != nil {
			return fmt.Errorf("vidlens: list reports: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(metas) == 0 {
			_, _ = fmt.Fprintln(w, "No saved reports.")
			return nil
		}
		t := report.NewTable(
			report.Column{Header: "ID"},
			report.Column{Header: "Title"},
			report.Column{Header: "Period"},
			report.Column{Header: "Sections", Align: report.AlignRight},
			report.Column{Header: "Generated"},
		)
		for _, m := range metas {
			t.AddRow(m.ID, m.Title, m.Period.Label(), fmt.Sprintf("%d", len(m.Sections)), humanize.Time(m.GeneratedAt))
		}
		return t.Render(w)
	})
}

func runReportShow(cmd *cobra.Command, args []string) error {
	return withStore(func(st *store.Store) error {
		rep, err := st.GetReport(args[0])
		if err != nil {
			return storeError(args[0], err)
		}
		return report.Render(cmd.OutOrStdout(), rep, reportFormat)
	})
}

func runReportDelete(cmd *cobra.Command, args []string) error {
	return withStore(func(st *store.Store) error {
		if err := st.DeleteReport(args[0]); err != nil {
			return storeError(args[0], err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted report %s\n", args[0])
		return nil
	})
}

func storeError(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return exitError(ExitInvalidArgs, "vidlens: report %q not found", id)
	}
	return fmt.Errorf("vidlens: %w", err)
}
