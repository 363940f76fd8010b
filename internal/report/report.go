// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package report

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vidlens/vidlens/internal/record"
)

// Section statuses.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
)

// Report is a generated report: its period and the rendered sections.
type Report struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Period      Period          `json:"period"`
	GeneratedAt time.Time       `json:"generated_at"`
	Sections    []SectionResult `json:"sections"`
}

// SectionResult is one section's rendered output. Content is plain text.
type SectionResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`            // "ok", "skipped"
	Content     string `json:"content,omitempty"` // rendered text
}

// Options controls report generation.
type Options struct {
	Period Period
	// Sections limits the sections run; empty runs all of them.
	Sections []string
	Now      time.Time
}

// Generate analyzes videos over opts.Period and renders every requested
// section. Sections with nothing to report are marked skipped; any other
// section failure fails the report.
func Generate(videos *record.Dataset, opts Options) (*Report, error) {
	names, unknown := ResolveSections(opts.Sections)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown report sections: %v (available: %v)", unknown, List())
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	in := NewInput(videos, opts.Period)

	r := &Report{
		ID:          uuid.NewString(),
		Title:       Title(opts.Period),
		Period:      opts.Period,
		GeneratedAt: now.UTC(),
	}
	for _, name := range names {
		sec := Get(name)
		res := SectionResult{Name: sec.Name(), Description: sec.Description()}

		if err := sec.Analyze(in); err != nil {
			if errors.Is(err, ErrNoData) {
				res.Status = StatusSkipped
				r.Sections = append(r.Sections, res)
				continue
			}
			return nil, fmt.Errorf("section %s: %w", name, err)
		}

		var buf bytes.Buffer
		if err := sec.Render(&buf); err != nil {
			return nil, fmt.Errorf("section %s render: %w", name, err)
		}
		res.Status = StatusOK
		res.Content = StripANSI(buf.String())
		r.Sections = append(r.Sections, res)
	}
	return r, nil
}

// Title returns the report title for p.
func Title(p Period) string {
	if p.Kind == KindWeekly {
		return "Weekly report " + p.Label()
	}
	return "Daily report " + p.Label()
}
