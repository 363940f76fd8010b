package explore

import (
	"slices"

	"github.com/vidlens/vidlens/internal/record"
)

// MetricSelection is the ordered subset of series a multi-series chart
// renders. The superset comes from configuration and is shared, read-only,
// by every selection derived from it.
type MetricSelection struct {
	superset []string
	selected []string
}

// NewMetricSelection returns a selection over superset with every metric
// selected in superset order.
func NewMetricSelection(superset []string) MetricSelection {
	sup := slices.Clone(superset)
	return MetricSelection{superset: sup, selected: slices.Clone(sup)}
}

// Superset returns a copy of the configured metric identifiers.
func (m MetricSelection) Superset() []string { return slices.Clone(m.superset) }

// Selection returns the selected metrics in render order. The result is
// never nil.
func (m MetricSelection) Selection() []string {
	return append([]string{}, m.selected...)
}

// Selected reports whether id is currently selected.
func (m MetricSelection) Selected(id string) bool { return slices.Contains(m.selected, id) }

// Known reports whether id belongs to the superset.
func (m MetricSelection) Known(id string) bool { return slices.Contains(m.superset, id) }

// Toggle removes id when selected and appends it otherwise. Ids outside the
// superset are rejected: m is returned unchanged with false.
func (m MetricSelection) Toggle(id string) (MetricSelection, bool) {
	if !m.Known(id) {
		return m, false
	}
	if i := slices.Index(m.selected, id); i >= 0 {
		next := slices.Delete(slices.Clone(m.selected), i, i+1)
		return MetricSelection{superset: m.superset, selected: next}, true
	}
	next := append(slices.Clone(m.selected), id)
	return MetricSelection{superset: m.superset, selected: next}, true
}

// SetSelection replaces the selection with ids in the given order. Repeated
// ids keep their first position. If any id is outside the superset the whole
// call is rejected and m is returned unchanged with false. An empty list is
// a valid, empty selection.
func (m MetricSelection) SetSelection(ids []string) (MetricSelection, bool) {
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if !m.Known(id) {
			return m, false
		}
		if !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	return MetricSelection{superset: m.superset, selected: next}, true
}

// Project reduces each row to its subject field plus the selected metrics,
// the shape a radar chart renders. An empty selection yields rows carrying
// only the subject.
func Project(rows record.Rows, subjectField string, sel MetricSelection) record.Rows {
	out := make(record.Rows, len(rows))
	for i, row := range rows {
		r := make(record.Record, len(sel.selected)+1)
		if subjectField != "" {
			if v, ok := row.Record[subjectField]; ok {
				r[subjectField] = v
			}
		}
		for _, id := range sel.selected {
			if v, ok := row.Record[id]; ok {
				r[id] = v
			}
		}
		out[i] = record.Row{Index: row.Index, Record: r}
	}
	return out
}
