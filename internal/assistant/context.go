// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package assistant

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/vidlens/vidlens/internal/aggregate"
	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/record"
)

// Context limits.
const (
	ContextTopRows       = 5
	ContextTopCategories = 5
	ContextHotVideos     = 5
	ContextTitleRunes    = 30
)

// Grounding is the data an answer is grounded on. Either part may be nil.
type Grounding struct {
	// View is the chart view the operator is looking at.
	View *explore.View
	// Videos are the raw videos behind the dashboard.
	Videos *record.Dataset
}

// Empty reports whether there is no data to ground on.
func (g Grounding) Empty() bool {
	return (g.View == nil || len(g.View.Rows) == 0) && g.Videos.Len() == 0
}

// DataContext renders the grounding as the text sent to the model: the
// current view (row count, per-series totals and top rows) and the raw
// video statistics (totals, top categories, hot videos). Categories and
// metrics named in intent get their own lines.
func DataContext(g Grounding, in Intent) string {
	var b strings.Builder
	if g.View != nil {
		writeViewContext(&b, *g.View)
	}
	if g.Videos.Len() > 0 {
		writeVideoContext(&b, g.Videos, in)
	}
	return strings.TrimSpace(b.String())
}

func writeViewContext(b *strings.Builder, v explore.View) {
	title := cmp.Or(v.Title, v.Chart)
	fmt.Fprintf(b, "Current view: %s (%s chart)\n", title, cmp.Or(string(v.Kind), "table"))
	if len(v.Breadcrumb) > 1 {
		fmt.Fprintf(b, "Drill path: %s\n", strings.Join(v.Breadcrumb, " > "))
	}
	if fields := v.Filters.Fields(); len(fields) > 0 {
		parts := make([]string, len(fields))
		for i, f := range fields {
			val, _ := v.Filters.Get(f)
			parts[i] = f + "=" + val.String()
		}
		fmt.Fprintf(b, "Filters: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintf(b, "Rows: %d visible of %d\n", len(v.Rows), v.Total)
	if len(v.Rows) == 0 {
		b.WriteString("\n")
		return
	}

	series := viewSeries(v)
	if len(series) > 0 {
		b.WriteString("Totals:\n")
		for _, s := range series {
			var total float64
			for _, r := range v.Rows {
				if val, ok := r.Record.Get(s); ok {
					n, _ := val.Float()
					total += n
				}
			}
			fmt.Fprintf(b, "- %s: %s\n", s, formatNumber(total))
		}
	}

	rows := slices.Clone(v.Rows)
	if len(series) > 0 {
		rows = explore.ApplySort(rows, explore.SortSpec{Field: series[0], Direction: explore.Descending})
	}
	if len(rows) > ContextTopRows {
		rows = rows[:ContextTopRows]
	}
	b.WriteString("Top rows:\n")
	for i, r := range rows {
		label := ""
		if val, ok := r.Record.Get(v.XField); ok {
			label = aggregate.Truncate(val.String(), ContextTitleRunes)
		}
		parts := make([]string, 0, len(series))
		for _, s := range series {
			if val, ok := r.Record.Get(s); ok {
				parts = append(parts, s+" "+val.String())
			}
		}
		fmt.Fprintf(b, "%d. %s: %s\n", i+1, label, strings.Join(parts, ", "))
	}
	b.WriteString("\n")
}

// viewSeries returns the plotted series of v: the selected metrics for
// radar charts, otherwise the y-fields.
func viewSeries(v explore.View) []string {
	if v.Kind == explore.KindRadar {
		return v.Metrics
	}
	return v.YFields
}

func writeVideoContext(b *strings.Builder, videos *record.Dataset, in Intent) {
	s := aggregate.Summarize(videos)
	b.WriteString("Video statistics:\n")
	fmt.Fprintf(b, "- Videos: %d\n", s.Videos)
	fmt.Fprintf(b, "- Total views: %s\n", formatNumber(s.TotalViews))
	fmt.Fprintf(b, "- Average views: %s\n", formatNumber(s.AvgViews))
	fmt.Fprintf(b, "- Average likes: %s\n", formatNumber(s.TotalLikes/float64(max(s.Videos, 1))))
	fmt.Fprintf(b, "- Average coins: %s\n", formatNumber(s.TotalCoins/float64(max(s.Videos, 1))))
	fmt.Fprintf(b, "- Average shares: %s\n", formatNumber(s.TotalShares/float64(max(s.Videos, 1))))
	fmt.Fprintf(b, "- Average interaction rate: %.2f%%\n", s.AvgInteraction*100)

	for _, m := range in.Metrics {
		col := aggregate.Column(videos, m)
		if len(col) == 0 {
			continue
		}
		fmt.Fprintf(b, "- Highest %s: %s, lowest %s: %s\n", m, formatNumber(slices.Max(col)), m, formatNumber(slices.Min(col)))
	}

	cats := aggregate.CountCategories(videos)
	if len(cats) > 0 {
		b.WriteString("\nTop categories:\n")
		for _, c := range cats[:min(len(cats), ContextTopCategories)] {
			fmt.Fprintf(b, "- %s: %d videos, average views %s\n", c.Name, c.Videos, formatNumber(c.AvgViews()))
		}
	}
	for _, name := range in.Categories {
		i := slices.IndexFunc(cats, func(c aggregate.CategoryCount) bool { return c.Name == name })
		if i < 0 {
			fmt.Fprintf(b, "- %s: no videos\n", name)
			continue
		}
		if i >= ContextTopCategories {
			fmt.Fprintf(b, "- %s: %d videos, average views %s\n", name, cats[i].Videos, formatNumber(cats[i].AvgViews()))
		}
	}

	hot := aggregate.HotVideos(videos, ContextHotVideos, ContextTitleRunes)
	if len(hot) > 0 {
		b.WriteString("\nHot videos:\n")
		for i, v := range hot {
			author := ""
			if v.Author != "" {
				author = " (" + v.Author + ")"
			}
			fmt.Fprintf(b, "%d. %s%s - %s views\n", i+1, v.Title, author, formatNumber(v.Views))
		}
	}
}

// formatNumber renders n with thousands separators, rounded to an integer
// unless it is below 10.
func formatNumber(n float64) string {
	if n != 0 && math.Abs(n) < 10 {
		return humanize.CommafWithDigits(n, 2)
	}
	return humanize.Comma(int64(math.Round(n)))
}
