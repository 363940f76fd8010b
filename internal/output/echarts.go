package output

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/vidlens/vidlens/internal/explore"
)

func init() {
	RegisterFormatter(NewEChartsFormatter())
}

// EChartsFormatter writes a view as a standalone ECharts page. Line and pie
// views keep their kind; bar and radar views render as grouped bars, one
// series per plotted field.
type EChartsFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*EChartsFormatter)(nil)

// NewEChartsFormatter returns a new EChartsFormatter.
func NewEChartsFormatter() *EChartsFormatter {
	return &EChartsFormatter{}
}

// Name returns the format name.
func (e *EChartsFormatter) Name() string {
	return "echarts"
}

// Format renders v as an HTML page with an embedded chart.
func (e *EChartsFormatter) Format(v explore.View, w io.Writer) error {
	title := v.Title
	if title == "" {
		title = v.Chart
	}
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title + " - vidlens"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: statusLine(v)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
	}

	labels := axisLabels(v)
	fields := plottedFields(v)

	var err error
	switch v.Kind {
	case explore.KindLine:
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(labels)
		for _, f := range fields {
			data := make([]opts.LineData, len(v.Rows))
			for i := range v.Rows {
				data[i] = opts.LineData{Value: plotValue(v, i, f)}
			}
			line.AddSeries(f, data)
		}
		err = line.Render(w)
	case explore.KindPie:
		pie := charts.NewPie()
		pie.SetGlobalOptions(global...)
		var data []opts.PieData
		if len(fields) > 0 {
			for i := range v.Rows {
				data = append(data, opts.PieData{Name: labels[i], Value: plotValue(v, i, fields[0])})
			}
		}
		pie.AddSeries(title, data)
		err = pie.Render(w)
	default:
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(labels)
		for _, f := range fields {
			data := make([]opts.BarData, len(v.Rows))
			for i := range v.Rows {
				data[i] = opts.BarData{Value: plotValue(v, i, f)}
			}
			bar.AddSeries(f, data)
		}
		err = bar.Render(w)
	}
	if err != nil {
		return fmt.Errorf("render echarts page: %w", err)
	}
	return nil
}

// plottedFields are the numeric series of v: the selected metrics of a radar
// view, the y fields otherwise.
func plottedFields(v explore.View) []string {
	if v.Kind == explore.KindRadar {
		return v.Metrics
	}
	return v.YFields
}

func axisLabels(v explore.View) []string {
	labels := make([]string, len(v.Rows))
	for i, r := range v.Rows {
		if val, ok := r.Record.Get(v.XField); ok {
			labels[i] = val.String()
		}
	}
	return labels
}

// plotValue returns the number at row i field f, or nil for a gap.
func plotValue(v explore.View, i int, f string) any {
	val, ok := v.Rows[i].Record.Get(f)
	if !ok {
		return nil
	}
	n, ok := val.Float()
	if !ok {
		return nil
	}
	return n
}
