package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/vidlens/vidlens/internal/aggregate"
)

func init() {
	Register(func() Section { return &summarySection{} })
}

// summarySection reports headline totals for the period and the change in
// views against the period before.
type summarySection struct {
	days     int
	stats    aggregate.Stats
	previous float64
	author   aggregate.AuthorCount
}

func (s *summarySection) Name() string        { return "summary" }
func (s *summarySection) Description() string { return "Headline totals for the period" }

func (s *summarySection) Analyze(in *Input) error {
	s.stats = aggregate.Summarize(in.Videos)
	if s.stats.Videos == 0 {
		return fmt.Errorf("summary: %w", ErrNoData)
	}
	s.days = in.Period.Days()
	s.previous = aggregate.Summarize(in.Previous).TotalViews
	s.author, _ = aggregate.TopAuthor(in.Videos)
	return nil
}

func (s *summarySection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("Summary"))
	_, _ = fmt.Fprintf(w, "-------\n")

	tbl := NewTable(
		Column{Header: "Metric"},
		Column{Header: "Value", Align: AlignRight, Color: ColorChange},
	)
	tbl.AddRow("Videos", strconv.Itoa(s.stats.Videos))
	tbl.AddRow("Total views", FormatCount(s.stats.TotalViews))
	tbl.AddRow("Average views", FormatCount(s.stats.AvgViews))
	if s.days > 1 {
		tbl.AddRow("Daily average views", FormatCount(s.stats.TotalViews/float64(s.days)))
	}
	tbl.AddRow("Total likes", FormatCount(s.stats.TotalLikes))
	tbl.AddRow("Total coins", FormatCount(s.stats.TotalCoins))
	tbl.AddRow("Total shares", FormatCount(s.stats.TotalShares))
	tbl.AddRow("Interaction rate", fmt.Sprintf("%.2f%%", s.stats.AvgInteraction*100))
	if s.previous > 0 {
		tbl.AddRow("Views vs previous period", FormatChange(Growth(s.stats.TotalViews, s.previous)))
	}
	if s.author.Videos > 0 {
		tbl.AddRow("Most active author", fmt.Sprintf("%s (%d videos)", s.author.Name, s.author.Videos))
	}

	if err := tbl.Render(w); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}

// Growth returns the relative change from previous to current.
// A zero previous value is no change.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous
}

// FormatChange renders a relative change as a signed percentage.
func FormatChange(r float64) string {
	return fmt.Sprintf("%+.1f%%", r*100)
}

// FormatCount renders a count compactly: 950, 12.3K, 4.5M.
func FormatCount(n float64) string {
	switch {
	case n >= 1e6:
		return fmt.Sprintf("%.1fM", n/1e6)
	case n >= 1e4:
		return fmt.Sprintf("%.1fK", n/1e3)
	default:
		return fmt.Sprintf("%.0f", n)
	}
}
