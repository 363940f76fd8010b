// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package explore

import (
	"encoding/json"
	"math"

	"github.com/vidlens/vidlens/internal/record"
)

// ZoomWindow is an optional inclusive [Start, End] range over a chart's
// axis. With an axis field the bounds compare against that field's values;
// without one they are 0-based positions in the sorted sequence, the way a
// chart brush reports its start and end index. Setting a window never drops
// data from the dataset, only from the rendered view.
type ZoomWindow struct {
	axis  string
	set   bool
	start record.Value
	end   record.Value
}

// NewZoomWindow returns an unset window over axis ("" for positional).
func NewZoomWindow(axis string) ZoomWindow {
	return ZoomWindow{axis: axis}
}

// Axis returns the axis field, or "" for a positional window.
func (w ZoomWindow) Axis() string { return w.axis }

// IsSet reports whether a window is active.
func (w ZoomWindow) IsSet() bool { return w.set }

// Bounds returns the inclusive bounds of an active window.
func (w ZoomWindow) Bounds() (start, end record.Value) { return w.start, w.end }

// Set returns w narrowed to [start, end]. Reversed bounds are swapped, so
// dragging a brush right-to-left selects the same range.
func (w ZoomWindow) Set(start, end record.Value) ZoomWindow {
	if start.Compare(end) > 0 {
		start, end = end, start
	}
	return ZoomWindow{axis: w.axis, set: true, start: start, end: end}
}

// Reset returns w with the full range restored.
func (w ZoomWindow) Reset() ZoomWindow {
	return NewZoomWindow(w.axis)
}

// accepts reports whether the bounds can window an axis whose values are of
// kind k. Positional windows need numeric bounds. An axis with no values yet
// (KindNull) takes any non-null bounds.
func (w ZoomWindow) accepts(start, end record.Value, k record.Kind) bool {
	if start.IsNull() || end.IsNull() {
		return false
	}
	if w.axis == "" {
		k = record.KindNumber
	}
	if k == record.KindNull {
		return true
	}
	return start.Kind() == k && end.Kind() == k
}

// VisibleRange returns rows unchanged when w is unset. Otherwise it returns,
// in input order, the rows whose axis value lies within the window. Rows
// without an axis value are outside every window.
func VisibleRange(rows record.Rows, w ZoomWindow) record.Rows {
	if !w.set {
		return append(record.Rows(nil), rows...)
	}
	if w.axis == "" {
		return positionalRange(rows, w)
	}
	out := make(record.Rows, 0, len(rows))
	for _, row := range rows {
		v, ok := row.Record.Get(w.axis)
		if !ok {
			continue
		}
		if v.Compare(w.start) >= 0 && v.Compare(w.end) <= 0 {
			out = append(out, row)
		}
	}
	return out
}

func positionalRange(rows record.Rows, w ZoomWindow) record.Rows {
	lo, _ := w.start.Num()
	hi, _ := w.end.Num()
	first := max(int(math.Ceil(lo)), 0)
	last := min(int(math.Floor(hi)), len(rows)-1)
	if first > last {
		return record.Rows{}
	}
	return append(record.Rows(nil), rows[first:last+1]...)
}

type zoomJSON struct {
	Axis  string        `json:"axis,omitempty"`
	Set   bool          `json:"set"`
	Start *record.Value `json:"start,omitempty"`
	End   *record.Value `json:"end,omitempty"`
}

// MarshalJSON encodes the window for the rendering layer.
func (w ZoomWindow) MarshalJSON() ([]byte, error) {
	out := zoomJSON{Axis: w.axis, Set: w.set}
	if w.set {
		out.Start, out.End = &w.start, &w.end
	}
	return json.Marshal(out)
}
