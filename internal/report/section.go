// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package report provides a pluggable section registry for periodic video
// reports. Each section analyzes the videos published in a report period and
// renders a focused segment.
package report

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/vidlens/vidlens/internal/aggregate"
	"github.com/vidlens/vidlens/internal/record"
)

// ErrNoData indicates a section has nothing to report for the period,
// typically because no videos were published in it.
var ErrNoData = errors.New("no data for period")

// Input is what sections analyze: the report period and the videos
// published in it and in the period before it.
type Input struct {
	Period   Period
	Videos   *record.Dataset
	Previous *record.Dataset
	// All is the full dataset, for sections that look beyond the period.
	All *record.Dataset
}

// NewInput scopes all to p and to the period preceding it.
func NewInput(all *record.Dataset, p Period) *Input {
	prev := p.Previous()
	return &Input{
		Period:   p,
		Videos:   aggregate.PublishedBetween(all, p.Start, p.End),
		Previous: aggregate.PublishedBetween(all, prev.Start, prev.End),
		All:      all,
	}
}

// Section is a pluggable report section that analyzes a period's videos and
// renders a focused report segment.
type Section interface {
	// Name returns the unique identifier for this section (e.g., "hot-videos").
	Name() string

	// Description returns a human-readable description of what this section reports.
	Description() string

	// Analyze processes the input and prepares internal state for rendering.
	// Returns ErrNoData (wrapped) if there is nothing to report.
	Analyze(in *Input) error

	// Render writes the section output to w.
	Render(w io.Writer) error
}

// Factory creates a fresh section. Sections hold per-report state, so every
// report gets its own instances.
type Factory func() Section

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
	order    []string // insertion order for deterministic listing
)

// Register adds a section factory to the global registry.
// It panics if a section with the same name is already registered.
func Register(f Factory) {
	mu.Lock()
	defer mu.Unlock()
	name := f().Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("report section already registered: %s", name))
	}
	registry[name] = f
	order = append(order, name)
}

// Get returns a new instance of the named section, or nil if not found.
func Get(name string) Section {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := registry[name]
	if !ok {
		return nil
	}
	return f()
}

// List returns the names of all registered sections in registration order.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// DefaultOrder is the order built-in sections appear in a report.
var DefaultOrder = []string{"summary", "top-categories", "hot-videos", "trend", "insights"}

// ResolveSections determines which sections to run. If filter is empty, all
// registered sections are used, built-ins in DefaultOrder first; unknown
// names are returned separately.
func ResolveSections(filter []string) (names, unknown []string) {
	if len(filter) == 0 {
		all := List()
		for _, name := range DefaultOrder {
			if slices.Contains(all, name) {
				names = append(names, name)
			}
		}
		for _, name := range all {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
		return names, nil
	}

	available := make(map[string]bool)
	for _, name := range List() {
		available[name] = true
	}
	for _, name := range filter {
		if available[name] {
			names = append(names, name)
		} else {
			unknown = append(unknown, name)
		}
	}
	return names, unknown
}
