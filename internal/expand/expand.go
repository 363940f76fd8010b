// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

// Package expand provides the drill-down strategies a drillable chart can be
// configured with. Each strategy turns one clicked aggregate into the child
// dataset shown one level down.
package expand

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/record"
)

// Strategy names accepted in chart configuration.
const (
	StrategyRatio   = "ratio"
	StrategyGroupBy = "group_by"
)

// Default field names used when configuration leaves them empty.
const (
	DefaultLabelField = "name"
	DefaultValueField = "value"
)

// Options configures one expander.
type Options struct {
	Strategy string

	// LabelField names the child label; ValueField the numeric measure that
	// is split (ratio) or summed (group_by).
	LabelField string
	ValueField string

	// Ratio settings.
	Ratios []float64

	// Group-by settings.
	MatchField string
	ChildField string
}

func (o Options) withDefaults() Options {
	if o.LabelField == "" {
		o.LabelField = DefaultLabelField
	}
	if o.ValueField == "" {
		o.ValueField = DefaultValueField
	}
	return o
}

// BaseFunc returns the raw dataset a group-by expander decomposes. It is
// called on every expansion so refreshed data is picked up.
type BaseFunc func() *record.Dataset

// Factory builds an expander from options.
type Factory func(opts Options, base BaseFunc) (explore.Expander, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register adds a strategy. It panics if the name is already registered.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("expand strategy already registered: %s", name))
	}
	factories[name] = f
}

// List returns the registered strategy names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the expander named by opts.Strategy. An empty strategy yields a
// nil expander, which leaves the chart non-drillable.
func New(opts Options, base BaseFunc) (explore.Expander, error) {
	if opts.Strategy == "" {
		return nil, nil
	}
	mu.RLock()
	f, ok := factories[opts.Strategy]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown expand strategy %q (available: %v)", opts.Strategy, List())
	}
	return f(opts.withDefaults(), base)
}

func init() {
	Register(StrategyRatio, newRatio)
	Register(StrategyGroupBy, newGroupBy)
}
