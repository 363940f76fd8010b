package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/vidlens/vidlens/internal/explore"
)

func init() {
	RegisterFormatter(NewDOTFormatter())
	RegisterFormatter(NewSVGFormatter())
}

// Node colours: the drill path and the visible rows under its top frame.
const (
	pathColor    = "#1890ff"
	currentColor = "#2fc25b"
	leafColor    = "#f0f0f0"
)

// maxLeaves bounds the row nodes drawn under the current frame.
const maxLeaves = 30

// DOTFormatter writes the drill path of a view, with the visible rows as
// leaves of the current frame, as a Graphviz DOT graph.
type DOTFormatter struct{}

// SVGFormatter renders the DOT graph of a view to SVG.
type SVGFormatter struct{}

// Compile-time interface checks.
var (
	_ Formatter = (*DOTFormatter)(nil)
	_ Formatter = (*SVGFormatter)(nil)
)

// NewDOTFormatter returns a new DOTFormatter.
func NewDOTFormatter() *DOTFormatter { return &DOTFormatter{} }

// NewSVGFormatter returns a new SVGFormatter.
func NewSVGFormatter() *SVGFormatter { return &SVGFormatter{} }

// Name returns the format name.
func (d *DOTFormatter) Name() string { return "dot" }

// Name returns the format name.
func (s *SVGFormatter) Name() string { return "svg" }

// Format writes the DOT source to w.
func (d *DOTFormatter) Format(v explore.View, w io.Writer) error {
	if _, err := io.WriteString(w, GenerateDOT(v)); err != nil {
		return fmt.Errorf("write dot: %w", err)
	}
	return nil
}

// Format renders the graph with Graphviz and writes the SVG to w.
func (s *SVGFormatter) Format(v explore.View, w io.Writer) error {
	ctx := context.Background()

	g, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("create graphviz: %w", err)
	}
	defer g.Close() //nolint:errcheck // release of wasm runtime

	graph, err := graphviz.ParseBytes([]byte(GenerateDOT(v)))
	if err != nil {
		return fmt.Errorf("parse dot: %w", err)
	}
	defer graph.Close() //nolint:errcheck // release of parsed graph

	var buf bytes.Buffer
	if err := g.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// GenerateDOT builds the DOT source for v. Crumbs are chained left to right;
// the last crumb is the frame on screen and fans out to its visible rows,
// labelled with the x value and the first y value.
func GenerateDOT(v explore.View) string {
	var sb strings.Builder

	title := v.Title
	if title == "" {
		title = v.Chart
	}
	sb.WriteString("digraph View {\n")
	sb.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&sb, "  label=%s;\n", quoteDOT(title))
	sb.WriteString("  labelloc=t;\n")
	sb.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=12];\n")
	sb.WriteString("  edge [color=\"#555555\"];\n\n")

	crumbs := v.Breadcrumb
	if len(crumbs) == 0 {
		crumbs = []string{title}
	}
	for i, label := range crumbs {
		fill, font := pathColor, "white"
		if i == len(crumbs)-1 {
			fill = currentColor
		}
		fmt.Fprintf(&sb, "  f%d [label=%s, fillcolor=%q, fontcolor=%q];\n", i, quoteDOT(label), fill, font)
		if i > 0 {
			fmt.Fprintf(&sb, "  f%d -> f%d;\n", i-1, i)
		}
	}

	top := fmt.Sprintf("f%d", len(crumbs)-1)
	var y string
	if len(v.YFields) > 0 {
		y = v.YFields[0]
	}
	for i, row := range v.Rows {
		if i == maxLeaves {
			fmt.Fprintf(&sb, "  more [label=%s, shape=plaintext, style=\"\"];\n", quoteDOT(fmt.Sprintf("+%d more", len(v.Rows)-maxLeaves)))
			fmt.Fprintf(&sb, "  %s -> more [style=dashed];\n", top)
			break
		}
		label := fmt.Sprintf("#%d", row.Index)
		if x, ok := row.Record.Get(v.XField); ok && !x.IsNull() {
			label = x.String()
		}
		if val, ok := row.Record.Get(y); ok && !val.IsNull() {
			label += "\n" + y + ": " + val.String()
		}
		fmt.Fprintf(&sb, "  r%d [label=%s, fillcolor=%q];\n", row.Index, quoteDOT(label), leafColor)
		fmt.Fprintf(&sb, "  %s -> r%d;\n", top, row.Index)
	}

	sb.WriteString("}\n")
	return sb.String()
}

// quoteDOT returns s as a quoted DOT string with newlines as line breaks.
func quoteDOT(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
