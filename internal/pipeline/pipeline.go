package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vidlens/vidlens/internal/aggregate"
	"github.com/vidlens/vidlens/internal/config"
	"github.com/vidlens/vidlens/internal/record"
)

// ChartSpec names a chart and the builder deriving its dataset.
type ChartSpec struct {
	ID    string
	Build aggregate.Builder
}

// ChartResult records how one chart's dataset was derived.
type ChartResult struct {
	Chart    string
	Rows     int
	Duration time.Duration
	Err      error
}

// Result is the output of Run.
type Result struct {
	// Videos are the prepared raw videos.
	Videos *record.Dataset
	// Datasets holds the derived dataset of every chart that built.
	Datasets map[string]*record.Dataset
	Charts   []ChartResult
	// Invalid counts raw records dropped by validation.
	Invalid int
	// Duplicates counts raw records merged into an earlier record.
	Duplicates int
	Duration   time.Duration
}

// Pipeline prepares videos and derives chart datasets.
type Pipeline struct {
	charts []ChartSpec
	now    func() time.Time
}

// New creates a Pipeline for the charts in cfg, in ChartIDs order.
// Returns an error if a chart names an unknown dataset builder.
func New(cfg *config.Config) (*Pipeline, error) {
	ids := cfg.ChartIDs()
	charts := make([]ChartSpec, 0, len(ids))
	for _, id := range ids {
		b, err := aggregate.Lookup(cfg.Charts[id].Dataset)
		if err != nil {
			return nil, fmt.Errorf("chart %s: %w", id, err)
		}
		charts = append(charts, ChartSpec{ID: id, Build: b})
	}
	return NewWithCharts(charts), nil
}

// NewWithCharts creates a Pipeline with explicitly provided charts.
func NewWithCharts(charts []ChartSpec) *Pipeline {
	return &Pipeline{charts: charts, now: time.Now}
}

// Prepare validates, deduplicates and enriches raw videos. Invalid records
// are logged and skipped.
func Prepare(raw *record.Dataset) (videos *record.Dataset, invalid, duplicates int) {
	valid := make([]record.Record, 0, raw.Len())
	for i, r := range raw.Records() {
		if errs := ValidateVideo(r); len(errs) > 0 {
			slog.Debug("skipping invalid video", "index", i, "errors", fmt.Sprint(errs))
			invalid++
			continue
		}
		valid = append(valid, r)
	}
	deduped := DeduplicateVideos(valid)
	duplicates = len(valid) - len(deduped)
	return record.NewDataset(EnrichVideos(deduped)), invalid, duplicates
}

// Run prepares raw and derives every chart's dataset concurrently. A chart
// whose builder fails is recorded in its ChartResult and left out of
// Datasets; it does not abort the run. The error is non-nil only when ctx
// is cancelled.
func (p *Pipeline) Run(ctx context.Context, raw *record.Dataset) (*Result, error) {
	start := time.Now()
	videos, invalid, dupes := Prepare(raw)
	if invalid > 0 || dupes > 0 {
		slog.Info("prepared videos", "kept", videos.Len(), "invalid", invalid, "duplicates", dupes)
	}

	now := p.now()
	results := make([]ChartResult, len(p.charts))
	datasets := make([]*record.Dataset, len(p.charts))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range p.charts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], datasets[i] = buildChart(c, videos, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{
		Videos:     videos,
		Datasets:   make(map[string]*record.Dataset, len(p.charts)),
		Charts:     results,
		Invalid:    invalid,
		Duplicates: dupes,
	}
	for i, r := range results {
		if r.Err != nil {
			slog.Warn("chart dataset failed", "chart", r.Chart, "error", r.Err)
			continue
		}
		out.Datasets[r.Chart] = datasets[i]
	}
	out.Duration = time.Since(start)
	return out, nil
}

// buildChart runs one builder and captures its result and timing. A
// panicking builder is reported as an error.
func buildChart(c ChartSpec, videos *record.Dataset, now time.Time) (res ChartResult, data *record.Dataset) {
	start := time.Now()
	res.Chart = c.ID
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("builder panicked: %v", p)
			data = nil
		}
		res.Duration = time.Since(start)
	}()

	data = c.Build(videos, now)
	if data == nil {
		data = record.Empty()
	}
	res.Rows = data.Len()
	return res, data
}
