package explore

import (
	"slices"

	"github.com/vidlens/vidlens/internal/record"
)

// ChartKind names the presentation a chart uses. The engine treats every
// kind the same; the kind only tells the renderer what to draw.
type ChartKind string

// Chart kinds rendered by the dashboard.
const (
	KindLine  ChartKind = "line"
	KindBar   ChartKind = "bar"
	KindPie   ChartKind = "pie"
	KindRadar ChartKind = "radar"
)

// Valid reports whether k is a known kind.
func (k ChartKind) Valid() bool {
	switch k {
	case KindLine, KindBar, KindPie, KindRadar:
		return true
	}
	return false
}

// ChartConfig is the declarative, per-chart configuration the engine runs
// against. It is read-only once a chart is mounted.
type ChartConfig struct {
	ID    string
	Title string
	Kind  ChartKind

	// XField labels each row (category axis, pie slice name, bar label).
	XField string
	// YFields are the plotted series.
	YFields []string
	// AxisField is the ordered field zoom windows apply to. Empty means
	// the window is positional.
	AxisField string
	// SubjectField names the radar subject of each row.
	SubjectField string

	Filters        []FilterDescriptor
	MetricSuperset []string
	DefaultSort    SortSpec
	RootLabel      string

	// Expander makes the chart drillable. Nil disables Descend.
	Expander Expander
}

// Filter returns the descriptor for key, if declared.
func (c *ChartConfig) Filter(key string) (FilterDescriptor, bool) {
	i := slices.IndexFunc(c.Filters, func(d FilterDescriptor) bool { return d.Key == key })
	if i < 0 {
		return FilterDescriptor{}, false
	}
	return c.Filters[i], true
}

// Drillable reports whether the chart has an expander.
func (c *ChartConfig) Drillable() bool { return c.Expander != nil }

// rootLabel returns the breadcrumb label of the root frame.
func (c *ChartConfig) rootLabel() string {
	if c.RootLabel != "" {
		return c.RootLabel
	}
	if c.Title != "" {
		return c.Title
	}
	return "All"
}

// SegmentAt builds the segment for the row at dataset position index in
// data, labelled by the chart's XField.
func (c *ChartConfig) SegmentAt(data *record.Dataset, index int) (Segment, bool) {
	if index < 0 || index >= data.Len() {
		return Segment{}, false
	}
	r := data.At(index)
	label := ""
	if v, ok := r.Get(c.XField); ok {
		label = v.String()
	}
	return Segment{Label: label, Index: index, Record: r}, true
}

// FindSegment returns the first row of data whose XField renders as label.
func (c *ChartConfig) FindSegment(data *record.Dataset, label string) (Segment, bool) {
	for _, row := range data.Rows() {
		if v, ok := row.Record.Get(c.XField); ok && v.String() == label {
			return Segment{Label: label, Index: row.Index, Record: row.Record}, true
		}
	}
	return Segment{}, false
}
