// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package explore

import (
	"context"

	"github.com/vidlens/vidlens/internal/record"
)

// Ticket identifies one fetch issued for a chart. Tickets increase
// monotonically per chart.
type Ticket uint64

// Chart is a mounted chart instance: its configuration, its current state
// and the bookkeeping that keeps dataset replacement last-write-wins.
//
// A Chart is not safe for concurrent use; callers serving it from several
// goroutines must serialize access.
type Chart struct {
	cfg     *ChartConfig
	state   State
	mounted bool

	issued  Ticket
	applied Ticket

	ctx    context.Context
	cancel context.CancelFunc
}

// Mount creates a chart over data with default state.
func Mount(cfg *ChartConfig, data *record.Dataset) *Chart {
	ctx, cancel := context.WithCancel(context.Background())
	return &Chart{
		cfg:     cfg,
		state:   NewState(cfg, data),
		mounted: true,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Config returns the chart configuration.
func (c *Chart) Config() *ChartConfig { return c.cfg }

// State returns the current state value.
func (c *Chart) State() State { return c.state }

// Mounted reports whether the chart is still mounted.
func (c *Chart) Mounted() bool { return c.mounted }

// Dispatch reduces cmd into the chart state. Commands sent to an unmounted
// chart are ignored.
func (c *Chart) Dispatch(cmd Command) (Outcome, error) {
	if !c.mounted {
		return OutcomeIgnored, nil
	}
	next, outcome, err := Reduce(c.cfg, c.state, cmd)
	c.state = next
	return outcome, err
}

// View renders the current state.
func (c *Chart) View() View { return Render(c.cfg, c.state) }

// BeginFetch issues a ticket for a new fetch together with a context that is
// cancelled when the chart unmounts. The caller passes the ticket back to
// Apply with the fetched data.
func (c *Chart) BeginFetch() (Ticket, context.Context) {
	c.issued++
	return c.issued, c.ctx
}

// Apply installs data fetched under ticket t. It returns false, leaving the
// chart untouched, when the chart has been unmounted, when t was never
// issued, or when a response for a newer ticket has already been applied.
// Applying resets the drill stack, window, filters and sort.
func (c *Chart) Apply(t Ticket, data *record.Dataset) bool {
	if !c.mounted || t == 0 || t > c.issued || t <= c.applied {
		return false
	}
	c.applied = t
	c.state, _, _ = Reduce(c.cfg, c.state, ReplaceDataset{Data: data})
	return true
}

// Unmount cancels any pending fetch and makes every later Apply or Dispatch
// a no-op.
func (c *Chart) Unmount() {
	if !c.mounted {
		return
	}
	c.mounted = false
	c.cancel()
}
