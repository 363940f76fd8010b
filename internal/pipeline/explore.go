// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vidlens/vidlens/internal/aggregate"
	"github.com/vidlens/vidlens/internal/config"
	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/record"
)

// ExploreOptions describes one exploration of a single chart: the chart and
// the interactions to replay on it.
type ExploreOptions struct {
	Chart string
	// Drill lists segment labels to descend into, outermost first.
	Drill   []string
	Filters map[string]string
	// Sort is "field" or "field:asc|desc".
	Sort string
	// Window is "start:end", or "start..end" when the bounds contain colons.
	Window  string
	Metrics []string
}

// Requests converts o into the command requests to replay, in order:
// drill, filters (by field name), sort, window, metrics.
func (o ExploreOptions) Requests() ([]explore.CommandRequest, error) {
	var reqs []explore.CommandRequest
	for _, label := range o.Drill {
		reqs = append(reqs, explore.CommandRequest{Type: explore.CmdDescend, Label: label})
	}

	fields := make([]string, 0, len(o.Filters))
	for f := range o.Filters {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		reqs = append(reqs, explore.CommandRequest{Type: explore.CmdSetFilter, Field: f, Value: operatorValue(o.Filters[f])})
	}

	if o.Sort != "" {
		reqs = append(reqs, explore.CommandRequest{Type: explore.CmdSetSort, Sort: o.Sort})
	}
	if o.Window != "" {
		start, end, err := ParseWindow(o.Window)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, explore.CommandRequest{Type: explore.CmdSetWindow, Start: start, End: end})
	}
	if len(o.Metrics) > 0 {
		reqs = append(reqs, explore.CommandRequest{Type: explore.CmdSetSelection, Metrics: o.Metrics})
	}
	return reqs, nil
}

// ParseWindow splits "start:end" or "start..end" into its bounds, kept as
// text until the reducer reads them against the axis.
func ParseWindow(s string) (start, end record.Value, err error) {
	sep := ":"
	if strings.Contains(s, "..") {
		sep = ".."
	}
	a, b, ok := strings.Cut(s, sep)
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if !ok || a == "" || b == "" {
		return record.Null(), record.Null(), fmt.Errorf("invalid window %q (want start:end)", s)
	}
	return record.String(a), record.String(b), nil
}

// operatorValue keeps typed-in text as a string; the reducer reads it as the
// kind of the field it targets. Empty input clears.
func operatorValue(s string) record.Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return record.Null()
	}
	return record.String(s)
}

// Exploration is the result of Explore.
type Exploration struct {
	View explore.View
	// Outcomes holds one outcome per replayed request.
	Outcomes []explore.Outcome
	Videos   *record.Dataset
}

// Explore prepares raw, builds the dataset of chart opts.Chart (the
// configured default chart when empty), mounts it and replays opts. A
// refused drill stops the replay and is returned as the error together
// with the exploration so far, as is a drill label that matches no segment.
func Explore(ctx context.Context, cfg *config.Config, raw *record.Dataset, opts ExploreOptions) (*Exploration, error) {
	id := opts.Chart
	if id == "" {
		id = cfg.DefaultChart
	}
	cc, ok := cfg.Charts[id]
	if !ok {
		return nil, fmt.Errorf("unknown chart %q (configured: %s)", id, strings.Join(cfg.ChartIDs(), ", "))
	}
	build, err := aggregate.Lookup(cc.Dataset)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", id, err)
	}
	reqs, err := opts.Requests()
	if err != nil {
		return nil, err
	}

	p := NewWithCharts([]ChartSpec{{ID: id, Build: build}})
	res, err := p.Run(ctx, raw)
	if err != nil {
		return nil, err
	}
	for _, c := range res.Charts {
		if c.Err != nil {
			return nil, fmt.Errorf("chart %s: %w", id, c.Err)
		}
	}

	ecfg, err := cc.Build(id, func() *record.Dataset { return res.Videos })
	if err != nil {
		return nil, err
	}
	chart := explore.Mount(ecfg, res.Datasets[id])
	defer chart.Unmount()

	out := &Exploration{Videos: res.Videos}
	for _, r := range reqs {
		outcome, err := chart.Do(r)
		out.Outcomes = append(out.Outcomes, outcome)
		if err == nil && r.Type == explore.CmdDescend && outcome == explore.OutcomeIgnored {
			err = fmt.Errorf("drill into %q: no such segment", r.Label)
		}
		if err != nil {
			out.View = chart.View()
			return out, err
		}
	}
	out.View = chart.View()
	return out, nil
}
