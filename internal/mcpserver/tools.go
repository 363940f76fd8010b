// Copyright 2026 The Vidlens Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vidlens/vidlens/internal/config"
	"github.com/vidlens/vidlens/internal/output"
	"github.com/vidlens/vidlens/internal/pipeline"
	"github.com/vidlens/vidlens/internal/report"
	"github.com/vidlens/vidlens/internal/source"
)

// ExploreInput is the input schema for the explore MCP tool.
type ExploreInput struct {
	Path      string `json:"path" jsonschema:"Dataset export to explore (.json, .jsonl or .xlsx)"`
	ConfigDir string `json:"config_dir,omitempty" jsonschema:"Directory holding .vidlens.yaml (defaults to current directory)"`
	Chart     string `json:"chart,omitempty" jsonschema:"Chart id (defaults to the configured default chart)"`
	Filters   string `json:"filters,omitempty" jsonschema:"Comma-separated field=value filters"`
	Sort      string `json:"sort,omitempty" jsonschema:"Sort as field or field:asc|desc"`
	Window    string `json:"window,omitempty" jsonschema:"Zoom window as start:end or start..end"`
	Drill     string `json:"drill,omitempty" jsonschema:"Comma-separated segment labels to drill into, outermost first"`
	Metrics   string `json:"metrics,omitempty" jsonschema:"Comma-separated metric selection"`
	Format    string `json:"format,omitempty" jsonschema:"Output format: json, markdown, table or dot (default: json)"`
}

// ReportInput is the input schema for the report MCP tool.
type ReportInput struct {
	Path     string `json:"path" jsonschema:"Dataset export to report on (.json, .jsonl or .xlsx)"`
	Kind     string `json:"kind,omitempty" jsonschema:"Report kind: daily or weekly (default: daily)"`
	Start    string `json:"start,omitempty" jsonschema:"First day of the period as YYYY-MM-DD (default: yesterday or last week)"`
	Sections string `json:"sections,omitempty" jsonschema:"Comma-separated list of report sections to include"`
	Format   string `json:"format,omitempty" jsonschema:"Output format: json, markdown or text (default: json)"`
}

// ChartConfigInput is the input schema for the chart_config MCP tool.
type ChartConfigInput struct {
	ConfigDir string `json:"config_dir,omitempty" jsonschema:"Directory holding .vidlens.yaml (defaults to current directory)"`
}

// textFormats are the view formats the explore tool can return as text.
var textFormats = []string{"json", "markdown", "table", "dot"}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// registerTools adds all vidlens tools to the MCP server.
func registerTools(server *mcp.Server) {
	readOnly := &mcp.ToolAnnotations{
		ReadOnlyHint:    true,
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "explore",
		Description: "Explore one chart over a video dataset export: apply filters, sort, a zoom window, drill-down and a metric selection, and return the resulting chart view.",
		Annotations: readOnly,
	}, handleExplore)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "report",
		Description: "Generate a daily or weekly report (summary, top categories, hot videos, trend) over a video dataset export.",
		Annotations: readOnly,
	}, handleReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "chart_config",
		Description: "List the configured dashboard charts with their kind, dataset, fields, filters, metrics and drill-down strategy.",
		Annotations: readOnly,
	}, handleChartConfig)
}

func loadConfig(dir string) (*config.Config, error) {
	abs, err := ResolveDir(dir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Resolve(abs, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func textResult(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: s},
		},
	}
}

func handleExplore(ctx context.Context, _ *mcp.CallToolRequest, input ExploreInput) (*mcp.CallToolResult, any, error) {
	path, err := ResolveDataset(input.Path)
	if err != nil {
		return nil, nil, err
	}

	format := "json"
	if input.Format != "" {
		format = input.Format
	}
	if !containsString(textFormats, format) {
		return nil, nil, fmt.Errorf("unsupported format %q (supported: %s)", format, strings.Join(textFormats, ", "))
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return nil, nil, err
	}

	filters, err := parseFilters(input.Filters)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := loadConfig(input.ConfigDir)
	if err != nil {
		return nil, nil, err
	}
	raw, err := source.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	ex, err := pipeline.Explore(ctx, cfg, raw, pipeline.ExploreOptions{
		Chart:   input.Chart,
		Drill:   splitAndTrim(input.Drill),
		Filters: filters,
		Sort:    input.Sort,
		Window:  input.Window,
		Metrics: splitAndTrim(input.Metrics),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("explore failed: %w", err)
	}

	var buf bytes.Buffer
	if err := formatter.Format(ex.View, &buf); err != nil {
		return nil, nil, fmt.Errorf("formatting failed: %w", err)
	}
	return textResult(buf.String()), nil, nil
}

func handleReport(_ context.Context, _ *mcp.CallToolRequest, input ReportInput) (*mcp.CallToolResult, any, error) {
	path, err := ResolveDataset(input.Path)
	if err != nil {
		return nil, nil, err
	}
	kind, err := report.ParseKind(input.Kind)
	if err != nil {
		return nil, nil, err
	}
	format := report.FormatJSON
	if input.Format != "" {
		format = input.Format
	}

	now := time.Now()
	period := report.DefaultPeriod(kind, now)
	if input.Start != "" {
		start, err := time.Parse(time.DateOnly, input.Start)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start %q (want YYYY-MM-DD)", input.Start)
		}
		period = report.PeriodFor(kind, start)
	}

	raw, err := source.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	videos, _, _ := pipeline.Prepare(raw)

	rep, err := report.Generate(videos, report.Options{Period: period, Sections: splitAndTrim(input.Sections), Now: now})
	if err != nil {
		return nil, nil, fmt.Errorf("report failed: %w", err)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, rep, format); err != nil {
		return nil, nil, fmt.Errorf("rendering failed: %w", err)
	}
	return textResult(report.StripANSI(buf.String())), nil, nil
}

// ChartSummary describes one configured chart for chart_config.
type ChartSummary struct {
	ID        string   `json:"id"`
	Title     string   `json:"title,omitempty"`
	Kind      string   `json:"kind"`
	Dataset   string   `json:"dataset"`
	XField    string   `json:"x_field"`
	YFields   []string `json:"y_fields,omitempty"`
	AxisField string   `json:"axis_field,omitempty"`
	Filters   []string `json:"filters,omitempty"`
	Metrics   []string `json:"metrics,omitempty"`
	Sort      string   `json:"sort,omitempty"`
	Drill     string   `json:"drill,omitempty"`
	Default   bool     `json:"default,omitempty"`
}

func handleChartConfig(_ context.Context, _ *mcp.CallToolRequest, input ChartConfigInput) (*mcp.CallToolResult, any, error) {
	cfg, err := loadConfig(input.ConfigDir)
	if err != nil {
		return nil, nil, err
	}

	charts := make([]ChartSummary, 0, len(cfg.Charts))
	for _, id := range cfg.ChartIDs() {
		cc := cfg.Charts[id]
		s := ChartSummary{
			ID:        id,
			Title:     cc.Title,
			Kind:      cc.Kind,
			Dataset:   cc.Dataset,
			XField:    cc.XField,
			YFields:   cc.YFields,
			AxisField: cc.AxisField,
			Metrics:   cc.Metrics,
			Sort:      cc.Sort,
			Drill:     cc.Expand.Strategy,
			Default:   id == cfg.DefaultChart,
		}
		for _, f := range cc.Filters {
			s.Filters = append(s.Filters, f.Key)
		}
		charts = append(charts, s)
	}

	data, err := json.MarshalIndent(map[string]any{"charts": charts}, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return textResult(string(data)), nil, nil
}

// parseFilters parses "field=value,field=value".
func parseFilters(s string) (map[string]string, error) {
	parts := splitAndTrim(s)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(parts))
	for _, p := range parts {
		field, value, ok := strings.Cut(p, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid filter %q (want field=value)", p)
		}
		out[field] = strings.TrimSpace(value)
	}
	return out, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// splitAndTrim splits a comma-separated string and trims whitespace from each element.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
