package explore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vidlens/vidlens/internal/record"
)

// Command type names used by CommandRequest.
const (
	CmdSetFilter    = "set_filter"
	CmdClearFilter  = "clear_filter"
	CmdClearFilters = "clear_filters"
	CmdSetSort      = "set_sort"
	CmdSetWindow    = "set_window"
	CmdResetWindow  = "reset_window"
	CmdToggleBrush  = "toggle_brush"
	CmdDescend      = "descend"
	CmdBack         = "back"
	CmdToggleMetric = "toggle_metric"
	CmdSetSelection = "set_selection"
)

// ErrUnknownCommand is returned for a request whose type is not one of the
// Cmd names.
var ErrUnknownCommand = errors.New("unknown command")

// CommandRequest is the wire form of a Command, as sent by dashboard
// clients and MCP tools. Only the fields the type needs are read.
//
// A descend names its segment either by dataset position (Index) or by the
// label the chart shows (Label); Label wins when both are set.
type CommandRequest struct {
	Type string `json:"type"`

	Field string       `json:"field,omitempty"`
	Value record.Value `json:"value"`

	// Sort is "field" or "field:asc|desc".
	Sort string `json:"sort,omitempty"`

	Start record.Value `json:"start"`
	End   record.Value `json:"end"`

	Index *int   `json:"index,omitempty"`
	Label string `json:"label,omitempty"`

	Metric  string   `json:"metric,omitempty"`
	Metrics []string `json:"metrics,omitempty"`
}

// Command converts r into a Command against state s of chart cfg. A label
// that matches no row of the current drill frame yields a Descend the
// reducer ignores.
func (r CommandRequest) Command(cfg *ChartConfig, s State) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(r.Type)) {
	case CmdSetFilter:
		if r.Field == "" {
			return nil, fmt.Errorf("%s: field is required", CmdSetFilter)
		}
		return SetFilter{Field: r.Field, Value: r.Value}, nil
	case CmdClearFilter:
		if r.Field == "" {
			return nil, fmt.Errorf("%s: field is required", CmdClearFilter)
		}
		return ClearFilter{Field: r.Field}, nil
	case CmdClearFilters:
		return ClearFilters{}, nil
	case CmdSetSort:
		spec, err := ParseSortSpec(r.Sort)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", CmdSetSort, err)
		}
		return SetSort{Spec: spec}, nil
	case CmdSetWindow:
		return SetWindow{Start: r.Start, End: r.End}, nil
	case CmdResetWindow:
		return ResetWindow{}, nil
	case CmdToggleBrush:
		return ToggleBrush{}, nil
	case CmdDescend:
		if r.Label != "" {
			seg, ok := cfg.FindSegment(s.Drill.Top().Data, r.Label)
			if !ok {
				return Descend{Index: -1}, nil
			}
			return Descend{Index: seg.Index}, nil
		}
		if r.Index == nil {
			return nil, fmt.Errorf("%s: index or label is required", CmdDescend)
		}
		return Descend{Index: *r.Index}, nil
	case CmdBack:
		return Back{}, nil
	case CmdToggleMetric:
		return ToggleMetric{ID: r.Metric}, nil
	case CmdSetSelection:
		return SetSelection{IDs: r.Metrics}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownCommand, r.Type)
	}
}

// Do converts r and dispatches it to c.
func (c *Chart) Do(r CommandRequest) (Outcome, error) {
	cmd, err := r.Command(c.cfg, c.state)
	if err != nil {
		return OutcomeIgnored, err
	}
	return c.Dispatch(cmd)
}
