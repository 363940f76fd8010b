package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vidlens/vidlens/internal/validate"
)

// Validate-specific flag values.
var (
	validateChart string
)

// validateCmd is the subcommand for validating dataset exports.
var validateCmd = &cobra.Command{
	Use:   "validate [dataset]",
	Short: "Validate a dataset export against a chart",
	Long: `Validate a JSON lines or JSON array dataset export before exploring it.

Charts over derived datasets need raw video records: a bvid or a title,
non-negative numeric counters and a parseable pubdate. Charts over the raw
dataset need their x field and numeric y fields. Errors are reported per
record with fix suggestions.

Pass a file path as an argument, or pipe the export via stdin:
  vidlens validate videos.jsonl
  vidlens validate --chart trend videos.json
  cat videos.json | vidlens validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateChart, "chart", "c", "", "chart to validate against (default: the configured default chart)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	chart := validateChart
	if chart == "" {
		chart = cfg.DefaultChart
	}
	cc, ok := cfg.Charts[chart]
	if !ok {
		return exitError(ExitInvalidArgs, "vidlens: unknown chart %q (configured: %s)", chart, strings.Join(cfg.ChartIDs(), ", "))
	}
	schema := validate.SchemaFor(cc)

	var result *validate.Result
	if len(args) > 0 {
		validate.FS = cmdFS
		result, err = validate.ValidateFile(args[0], schema)
		if err != nil {
			return exitError(ExitInvalidArgs, "vidlens: cannot open %q (%v)", args[0], err)
		}
	} else {
		result, err = validate.Validate(cmd.InOrStdin(), schema)
		if err != nil {
			return exitError(ExitInvalidArgs, "vidlens: %v", err)
		}
	}

	stderr := cmd.ErrOrStderr()
	for _, e := range result.Warnings {
		printIssue(stderr, "warning: ", e)
	}
	if result.Valid() {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "valid: %d records (%s) for chart %s\n", result.TotalRecords, result.Format, chart)
		return nil
	}
	for _, e := range result.Errors {
		printIssue(stderr, "", e)
	}
	_, _ = fmt.Fprintf(stderr, "\n%d error(s) found in %d of %d records\n",
		len(result.Errors), result.InvalidRecords(), result.TotalRecords)
	return exitError(ExitInvalidArgs, "")
}

func printIssue(w io.Writer, prefix string, e validate.ValidationError) {
	_, _ = fmt.Fprintf(w, "%srecord %d:", prefix, e.Line)
	if e.Field != "" {
		_, _ = fmt.Fprintf(w, " %s:", e.Field)
	}
	_, _ = fmt.Fprintf(w, " %s\n", e.Message)
	if e.Suggestion != "" {
		_, _ = fmt.Fprintf(w, "  fix: %s\n", e.Suggestion)
	}
}
