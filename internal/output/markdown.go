package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vidlens/vidlens/internal/explore"
)

func init() {
	RegisterFormatter(NewMarkdownFormatter())
}

// MarkdownFormatter writes a view as a Markdown document.
type MarkdownFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*MarkdownFormatter)(nil)

// NewMarkdownFormatter returns a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the format name.
func (m *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format writes the view to w.
//
// The output includes:
//   - A title heading
//   - The drill path and active filter, sort and window
//   - A table of the visible rows
func (m *MarkdownFormatter) Format(v explore.View, w io.Writer) error {
	title := v.Title
	if title == "" {
		title = v.Chart
	}
	if _, err := fmt.Fprintf(w, "# %s\n\n", title); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := fmt.Fprintf(w, "**Path:** %s | **Rows:** %d of %d\n\n",
		strings.Join(v.Breadcrumb, " / "), len(v.Rows), v.Total); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	if s := statusLine(v); s != "" {
		if _, err := fmt.Fprintf(w, "_%s_\n\n", s); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if len(v.Rows) == 0 {
		_, err := fmt.Fprintf(w, "No rows match the current view.\n")
		return err
	}

	cols := Columns(v)
	if err := writeMarkdownRow(w, cols); err != nil {
		return err
	}
	sep := make([]string, len(cols))
	for i := range sep {
		sep[i] = "---"
	}
	if err := writeMarkdownRow(w, sep); err != nil {
		return err
	}
	for i := range v.Rows {
		if err := writeMarkdownRow(w, cells(v, i, cols)); err != nil {
			return err
		}
	}
	return nil
}

func writeMarkdownRow(w io.Writer, values []string) error {
	escaped := make([]string, len(values))
	for i, s := range values {
		escaped[i] = strings.ReplaceAll(s, "|", `\|`)
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(escaped, " | ")); err != nil {
		return fmt.Errorf("write table row: %w", err)
	}
	return nil
}
