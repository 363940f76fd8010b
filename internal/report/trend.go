// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/vidlens/vidlens/internal/aggregate"
)

// TrendDays is the window the trend section looks back over, ending with
// the last day of the period.
const TrendDays = 7

func init() {
	Register(func() Section { return &trendSection{} })
}

type trendPoint struct {
	date     time.Time
	videos   int
	avgViews float64
}

// trendSection reports average views per day over the trailing week and
// the direction they are moving in.
type trendSection struct {
	points    []trendPoint
	direction aggregate.Trend
	change    float64
}

func (s *trendSection) Name() string        { return "trend" }
func (s *trendSection) Description() string { return "Average views per day over the trailing week" }

func (s *trendSection) Analyze(in *Input) error {
	s.points = nil
	series := aggregate.TimeSeries(in.All, in.Period.End.Add(-time.Nanosecond), TrendDays)
	for _, r := range series.Records() {
		n, _ := r["videos"].Num()
		if n == 0 {
			continue
		}
		views, _ := r["total_views"].Num()
		date, _ := r["date"].TimeValue()
		s.points = append(s.points, trendPoint{date: date, videos: int(n), avgViews: views / n})
	}
	if len(s.points) < 2 {
		return fmt.Errorf("trend: insufficient data (need >= 2 days with videos): %w", ErrNoData)
	}

	avgs := make([]float64, len(s.points))
	for i, p := range s.points {
		avgs[i] = p.avgViews
	}
	s.direction, s.change = aggregate.Direction(avgs)
	return nil
}

func (s *trendSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("Trend"))
	_, _ = fmt.Fprintf(w, "-----\n")
	_, _ = fmt.Fprintf(w, "  Direction: %s (%s)\n\n", ColorTrend(string(s.direction)), ColorChange(FormatChange(s.change)))

	tbl := NewTable(
		Column{Header: "Date"},
		Column{Header: "Videos", Align: AlignRight},
		Column{Header: "Avg views", Align: AlignRight},
		Column{Header: "Day over day", Align: AlignRight, Color: ColorChange},
	)
	for i, p := range s.points {
		change := ""
		if i > 0 {
			change = FormatChange(Growth(p.avgViews, s.points[i-1].avgViews))
		}
		tbl.AddRow(p.date.Format(time.DateOnly), strconv.Itoa(p.videos), FormatCount(p.avgViews), change)
	}
	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}
