package report

import (
	"fmt"
	"io"

	"github.com/vidlens/vidlens/internal/aggregate"
)

// Insight levels.
const (
	LevelGood = "good"
	LevelWarn = "warn"
	LevelInfo = "info"
)

// Thresholds behind the insights.
const (
	HighAvgViews   = 50000
	LowAvgViews    = 10000
	BusyVideoCount = 100
	GrowthAlert    = 0.10
)

func init() {
	Register(func() Section { return &insightsSection{} })
}

// Insight is a single observation with a suggested follow-up.
type Insight struct {
	Level   string
	Message string
}

// insightsSection turns the period's numbers into observations and
// recommendations.
type insightsSection struct {
	insights []Insight
}

func (s *insightsSection) Name() string { return "insights" }
func (s *insightsSection) Description() string {
	return "Observations and recommendations derived from the period's numbers"
}

func (s *insightsSection) Analyze(in *Input) error {
	s.insights = Insights(in)
	if len(s.insights) == 0 {
		return fmt.Errorf("insights: %w", ErrNoData)
	}
	return nil
}

// Insights derives observations for in, most urgent first.
func Insights(in *Input) []Insight {
	stats := aggregate.Summarize(in.Videos)
	if stats.Videos == 0 {
		return nil
	}

	var warn, good, info []Insight
	switch {
	case stats.AvgViews > HighAvgViews:
		good = append(good, Insight{LevelGood, "Average views are strong; content quality is high"})
	case stats.AvgViews < LowAvgViews:
		warn = append(warn, Insight{LevelWarn, "Average views are low; review content quality and publish timing"})
	}

	if prev := aggregate.Summarize(in.Previous).TotalViews; prev > 0 {
		g := Growth(stats.TotalViews, prev)
		switch {
		case g > GrowthAlert:
			good = append(good, Insight{LevelGood, fmt.Sprintf("Views grew %s over the previous period", FormatChange(g))})
		case g < -GrowthAlert:
			warn = append(warn, Insight{LevelWarn, fmt.Sprintf("Views fell %s against the previous period; revisit the content strategy", FormatChange(g))})
		case g < 0:
			warn = append(warn, Insight{LevelWarn, "Views dipped slightly; watch audience feedback"})
		default:
			info = append(info, Insight{LevelInfo, "Views held steady against the previous period"})
		}
	}

	if cats := aggregate.CountCategories(in.Videos); len(cats) > 0 {
		info = append(info, Insight{LevelInfo, fmt.Sprintf("%s led the period; focus new content there", cats[0].Name)})
	}
	if stats.Videos > BusyVideoCount {
		info = append(info, Insight{LevelInfo, "Publishing volume is high; competition for attention is strong"})
	}
	info = append(info, Insight{LevelInfo, "Keep monitoring the numbers and adjust as they move"})

	out := append(warn, good...)
	return append(out, info...)
}

func (s *insightsSection) Render(w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", SectionTitle("Insights"))
	_, _ = fmt.Fprintf(w, "--------\n")
	for _, in := range s.insights {
		_, _ = fmt.Fprintf(w, "  [%s] %s\n", ColorLevel(in.Level), in.Message)
	}
	_, _ = fmt.Fprintf(w, "\n")
	return nil
}
