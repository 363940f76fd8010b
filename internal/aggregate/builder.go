package aggregate

import (
	"fmt"
	"slices"
	"time"

	"github.com/vidlens/vidlens/internal/record"
)

// Builder derives a chart dataset from raw videos.
type Builder func(videos *record.Dataset, now time.Time) *record.Dataset

// Dataset builder names accepted in chart configuration.
const (
	DatasetRaw         = "raw"
	DatasetTimeSeries  = "timeseries"
	DatasetCategories  = "categories"
	DatasetPerformance = "performance"
	DatasetRadar       = "radar"
)

var builders = map[string]Builder{
	DatasetRaw: func(videos *record.Dataset, _ time.Time) *record.Dataset {
		return videos
	},
	DatasetTimeSeries: func(videos *record.Dataset, now time.Time) *record.Dataset {
		return TimeSeries(videos, now, DefaultDays)
	},
	DatasetCategories: func(videos *record.Dataset, _ time.Time) *record.Dataset {
		return Categories(videos, DefaultCategoryLimit)
	},
	DatasetPerformance: func(videos *record.Dataset, _ time.Time) *record.Dataset {
		return Performance(videos, DefaultPerformanceLimit)
	},
	DatasetRadar: func(videos *record.Dataset, _ time.Time) *record.Dataset {
		return Radar(videos, RadarMetrics)
	},
}

// Lookup returns the builder registered under name. The empty name is raw.
func Lookup(name string) (Builder, error) {
	if name == "" {
		name = DatasetRaw
	}
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q (available: %v)", name, Builders())
	}
	return b, nil
}

// Builders returns the builder names, sorted.
func Builders() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
