package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Render formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Render writes r to w in the named format.
func Render(w io.Writer, r *Report, format string) error {
	switch format {
	case "", FormatText:
		return RenderText(w, r)
	case FormatMarkdown:
		return RenderMarkdown(w, r)
	case FormatJSON:
		return RenderJSON(w, r)
	default:
		return fmt.Errorf("unknown report format %q (must be text, markdown, or json)", format)
	}
}

// RenderText writes the report for a terminal: a bold title, then each
// section's text. Skipped sections are listed at the end.
func RenderText(w io.Writer, r *Report) error {
	if _, err := fmt.Fprintf(w, "%s\n", SectionTitle(r.Title)); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Generated %s  id %s\n\n", r.GeneratedAt.Format(time.RFC3339), r.ID)

	var skipped []string
	for _, s := range r.Sections {
		if s.Status != StatusOK {
			skipped = append(skipped, s.Name)
			continue
		}
		if _, err := io.WriteString(w, s.Content); err != nil {
			return fmt.Errorf("render section %s: %w", s.Name, err)
		}
	}
	if len(skipped) > 0 {
		_, _ = fmt.Fprintf(w, "Skipped (no data): %s\n", strings.Join(skipped, ", "))
	}
	return nil
}

// RenderMarkdown writes the report as Markdown, each section's text block
// under its own heading.
func RenderMarkdown(w io.Writer, r *Report) error {
	if _, err := fmt.Fprintf(w, "# %s\n\n", r.Title); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	_, _ = fmt.Fprintf(w, "**Generated:** %s | **Period:** %s\n\n", r.GeneratedAt.Format(time.RFC3339), r.Period.Label())

	for _, s := range r.Sections {
		_, _ = fmt.Fprintf(w, "## %s\n\n", s.Description)
		if s.Status != StatusOK {
			_, _ = fmt.Fprintf(w, "_No data for this period._\n\n")
			continue
		}
		if _, err := fmt.Fprintf(w, "```\n%s```\n\n", s.Content); err != nil {
			return fmt.Errorf("render section %s: %w", s.Name, err)
		}
	}
	return nil
}

// RenderJSON writes the report as machine-readable JSON.
func RenderJSON(w io.Writer, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("JSON marshal: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
