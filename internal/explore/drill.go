// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package explore

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vidlens/vidlens/internal/record"
)

// Drill-down failures. Both are wrapped in a *DrillError.
var (
	ErrExpandFailed   = errors.New("expand failed")
	ErrEmptyExpansion = errors.New("expand returned no data")
	ErrNoExpander     = errors.New("chart is not drillable")
)

// DrillError reports a refused descend. The stack is left unchanged.
type DrillError struct {
	Label string
	Err   error
}

func (e *DrillError) Error() string {
	return fmt.Sprintf("drill into %q: %v", e.Label, e.Err)
}

func (e *DrillError) Unwrap() error { return e.Err }

// DrillFrame is one level of a drill-down: the label of the segment that
// was expanded and the dataset shown at this level.
type DrillFrame struct {
	Label string
	Data  *record.Dataset
}

// DrillStack is the navigation history of a drillable chart. The root frame
// sits at index 0 and is never popped. Push and Back return new stacks; a
// stack value is never modified after construction.
type DrillStack struct {
	frames []DrillFrame
}

// NewDrillStack returns a stack holding only the root frame.
func NewDrillStack(rootLabel string, root *record.Dataset) DrillStack {
	if root == nil {
		root = record.Empty()
	}
	return DrillStack{frames: []DrillFrame{{Label: rootLabel, Data: root}}}
}

// Depth returns the number of frames; 1 means the root view.
func (s DrillStack) Depth() int { return len(s.frames) }

// Top returns the frame currently rendered.
func (s DrillStack) Top() DrillFrame {
	if len(s.frames) == 0 {
		return DrillFrame{Data: record.Empty()}
	}
	return s.frames[len(s.frames)-1]
}

// Root returns the bottom frame.
func (s DrillStack) Root() DrillFrame {
	if len(s.frames) == 0 {
		return DrillFrame{Data: record.Empty()}
	}
	return s.frames[0]
}

// CanGoBack reports whether Back would change the stack.
func (s DrillStack) CanGoBack() bool { return len(s.frames) > 1 }

// Labels returns the breadcrumb from root to top.
func (s DrillStack) Labels() []string {
	out := make([]string, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.Label
	}
	return out
}

// Push returns a stack with f on top.
func (s DrillStack) Push(f DrillFrame) DrillStack {
	next := make([]DrillFrame, len(s.frames), len(s.frames)+1)
	copy(next, s.frames)
	return DrillStack{frames: append(next, f)}
}

// Back returns the stack with its top frame popped and true, or s and false
// at the root.
func (s DrillStack) Back() (DrillStack, bool) {
	if len(s.frames) <= 1 {
		return s, false
	}
	return DrillStack{frames: slices.Clip(s.frames[:len(s.frames)-1])}, true
}

// Reset returns a single-frame stack rooted at data, keeping the root label.
func (s DrillStack) Reset(data *record.Dataset) DrillStack {
	return NewDrillStack(s.Root().Label, data)
}

// Segment identifies the aggregate a user clicked: its label, the record
// behind it and that record's position in the current frame.
type Segment struct {
	Label  string
	Index  int
	Record record.Record
}

// Expander decomposes a segment into the dataset shown one level down. The
// decomposition policy belongs to the data source, not to the navigator.
type Expander interface {
	Expand(seg Segment) (*record.Dataset, error)
}

// ExpandFunc adapts a function to Expander.
type ExpandFunc func(seg Segment) (*record.Dataset, error)

// Expand calls f.
func (f ExpandFunc) Expand(seg Segment) (*record.Dataset, error) { return f(seg) }

// Descend expands seg and pushes the result. If the expander errors, panics
// or yields no records, s is returned unchanged with a *DrillError.
func (s DrillStack) Descend(seg Segment, exp Expander) (DrillStack, error) {
	if exp == nil {
		return s, &DrillError{Label: seg.Label, Err: ErrNoExpander}
	}
	child, err := safeExpand(exp, seg)
	if err != nil {
		return s, &DrillError{Label: seg.Label, Err: fmt.Errorf("%w: %w", ErrExpandFailed, err)}
	}
	if child.Len() == 0 {
		return s, &DrillError{Label: seg.Label, Err: ErrEmptyExpansion}
	}
	return s.Push(DrillFrame{Label: seg.Label, Data: child}), nil
}

func safeExpand(exp Expander, seg Segment) (child *record.Dataset, err error) {
	defer func() {
		if r := recover(); r != nil {
			child, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return exp.Expand(seg)
}
