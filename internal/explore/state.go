// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package explore

import (
	"fmt"

	"github.com/vidlens/vidlens/internal/record"
)

// State is the complete view state of one chart. It is a value: Reduce
// returns a new State and leaves its input untouched.
type State struct {
	Filters   FilterSpec
	Sort      SortSpec
	Window    ZoomWindow
	ShowBrush bool
	Drill     DrillStack
	Metrics   MetricSelection
}

// NewState returns the mount-time state for cfg over data: no filters, the
// configured default sort, no zoom window, brush shown, a root-only drill
// stack and every metric selected.
func NewState(cfg *ChartConfig, data *record.Dataset) State {
	return State{
		Sort:      cfg.DefaultSort,
		Window:    NewZoomWindow(cfg.AxisField),
		ShowBrush: true,
		Drill:     NewDrillStack(cfg.rootLabel(), data),
		Metrics:   NewMetricSelection(cfg.MetricSuperset),
	}
}

// Outcome classifies how Reduce handled a command.
type Outcome int

const (
	// OutcomeApplied means the state changed as requested.
	OutcomeApplied Outcome = iota
	// OutcomeIgnored means the command was a no-op in the current state
	// (back at the root, a value outside a filter's options, an unusable
	// window).
	OutcomeIgnored
	// OutcomeRejected means the command was refused: an unknown metric, or
	// a drill expansion that failed.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "rejected"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "applied":
		*o = OutcomeApplied
	case "ignored":
		*o = OutcomeIgnored
	case "rejected":
		*o = OutcomeRejected
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}

// Command is a discrete user action on a chart.
type Command interface {
	command()
}

type (
	// SetFilter constrains Field to Value; a null Value clears the field.
	SetFilter struct {
		Field string
		Value record.Value
	}
	// ClearFilter removes the constraint on Field.
	ClearFilter struct{ Field string }
	// ClearFilters removes every constraint.
	ClearFilters struct{}
	// SetSort selects the sort field and direction.
	SetSort struct{ Spec SortSpec }
	// SetWindow narrows the zoom window to [Start, End].
	SetWindow struct{ Start, End record.Value }
	// ResetWindow restores the full range.
	ResetWindow struct{}
	// ToggleBrush shows or hides the brush control.
	ToggleBrush struct{}
	// Descend expands the row at dataset position Index of the current frame.
	Descend struct{ Index int }
	// Back returns to the previous drill level.
	Back struct{}
	// ToggleMetric adds or removes one series.
	ToggleMetric struct{ ID string }
	// SetSelection replaces the series selection, in render order.
	SetSelection struct{ IDs []string }
	// ReplaceDataset installs a freshly fetched dataset.
	ReplaceDataset struct{ Data *record.Dataset }
)

func (SetFilter) command()      {}
func (ClearFilter) command()    {}
func (ClearFilters) command()   {}
func (SetSort) command()        {}
func (SetWindow) command()      {}
func (ResetWindow) command()    {}
func (ToggleBrush) command()    {}
func (Descend) command()        {}
func (Back) command()           {}
func (ToggleMetric) command()   {}
func (SetSelection) command()   {}
func (ReplaceDataset) command() {}

// Reduce applies cmd to s and returns the next state. Each command touches
// only its own slice of the state: windows never alter filters, filters
// never alter the drill stack, and so on. The error is non-nil only for a
// refused drill (a *DrillError), in which case s is returned unchanged.
func Reduce(cfg *ChartConfig, s State, cmd Command) (State, Outcome, error) {
	switch c := cmd.(type) {
	case SetFilter:
		if c.Field == "" {
			return s, OutcomeIgnored, nil
		}
		if c.Value.IsNull() {
			return reduceClearFilter(s, c.Field)
		}
		data := s.Drill.Top().Data
		v := record.Coerce(c.Value, data.KindOf(c.Field))
		if d, ok := cfg.Filter(c.Field); ok && !d.Allows(v, data) {
			return s, OutcomeIgnored, nil
		}
		s.Filters = s.Filters.With(c.Field, v)
		return s, OutcomeApplied, nil

	case ClearFilter:
		return reduceClearFilter(s, c.Field)

	case ClearFilters:
		if s.Filters.Len() == 0 {
			return s, OutcomeIgnored, nil
		}
		s.Filters = FilterSpec{}
		return s, OutcomeApplied, nil

	case SetSort:
		s.Sort = c.Spec
		return s, OutcomeApplied, nil

	case SetWindow:
		kind := record.KindNumber
		if axis := s.Window.Axis(); axis != "" {
			kind = s.Drill.Top().Data.KindOf(axis)
		}
		start, end := record.Coerce(c.Start, kind), record.Coerce(c.End, kind)
		if !s.Window.accepts(start, end, kind) {
			return s, OutcomeIgnored, nil
		}
		s.Window = s.Window.Set(start, end)
		return s, OutcomeApplied, nil

	case ResetWindow:
		if !s.Window.IsSet() {
			return s, OutcomeIgnored, nil
		}
		s.Window = s.Window.Reset()
		return s, OutcomeApplied, nil

	case ToggleBrush:
		s.ShowBrush = !s.ShowBrush
		return s, OutcomeApplied, nil

	case Descend:
		seg, ok := cfg.SegmentAt(s.Drill.Top().Data, c.Index)
		if !ok {
			return s, OutcomeIgnored, nil
		}
		next, err := s.Drill.Descend(seg, cfg.Expander)
		if err != nil {
			return s, OutcomeRejected, err
		}
		s.Drill = next
		return s, OutcomeApplied, nil

	case Back:
		next, ok := s.Drill.Back()
		if !ok {
			return s, OutcomeIgnored, nil
		}
		s.Drill = next
		return s, OutcomeApplied, nil

	case ToggleMetric:
		next, ok := s.Metrics.Toggle(c.ID)
		if !ok {
			return s, OutcomeRejected, nil
		}
		s.Metrics = next
		return s, OutcomeApplied, nil

	case SetSelection:
		next, ok := s.Metrics.SetSelection(c.IDs)
		if !ok {
			return s, OutcomeRejected, nil
		}
		s.Metrics = next
		return s, OutcomeApplied, nil

	case ReplaceDataset:
		// Filters may reference categories the new data no longer has, and
		// the drill path and window may point at aggregates that changed.
		// The metric selection goes back to its mount default with the
		// rest; only brush visibility carries over.
		next := NewState(cfg, c.Data)
		next.ShowBrush = s.ShowBrush
		return next, OutcomeApplied, nil
	}
	return s, OutcomeIgnored, nil
}

func reduceClearFilter(s State, field string) (State, Outcome, error) {
	if _, ok := s.Filters.Get(field); !ok {
		return s, OutcomeIgnored, nil
	}
	s.Filters = s.Filters.Without(field)
	return s, OutcomeApplied, nil
}
