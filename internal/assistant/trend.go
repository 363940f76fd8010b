package assistant

import (
	"fmt"
	"slices"
	"time"

	"github.com/vidlens/vidlens/internal/aggregate"
	"github.com/vidlens/vidlens/internal/record"
)

// TrendDays is the window trend analysis looks at.
const TrendDays = 7

// TrendPoint is one day of a metric trend.
type TrendPoint struct {
	Date   time.Time `json:"date"`
	Videos int       `json:"videos"`
	Avg    float64   `json:"avg"`
	Total  float64   `json:"total"`
}

// Trend is the daily trend of one metric over videos published in the
// TrendDays ending at the analysis time.
type Trend struct {
	Metric    string          `json:"metric"`
	Direction aggregate.Trend `json:"direction"`
	Change    float64         `json:"change"`
	Points    []TrendPoint    `json:"points"`
	// PeakDate is the day with the highest average.
	PeakDate time.Time `json:"peak_date"`
}

// AnalyzeTrend computes the daily average of metric over the TrendDays
// ending on now's date and compares the recent half to the earlier half.
// Days without videos are left out. It fails when fewer than two days have
// data.
func AnalyzeTrend(videos *record.Dataset, metric string, now time.Time) (*Trend, error) {
	end := now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -TrendDays)

	var points []TrendPoint
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		scoped := aggregate.PublishedBetween(videos, day, day.AddDate(0, 0, 1))
		if scoped.Len() == 0 {
			continue
		}
		var total float64
		for _, v := range aggregate.Column(scoped, metric) {
			total += v
		}
		points = append(points, TrendPoint{
			Date:   day,
			Videos: scoped.Len(),
			Avg:    total / float64(scoped.Len()),
			Total:  total,
		})
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("not enough data for a %s trend: %d day(s) with videos", metric, len(points))
	}

	avgs := make([]float64, len(points))
	for i, p := range points {
		avgs[i] = p.Avg
	}
	dir, change := aggregate.Direction(avgs)
	peak := points[slices.Index(avgs, slices.Max(avgs))]
	return &Trend{Metric: metric, Direction: dir, Change: change, Points: points, PeakDate: peak.Date}, nil
}
