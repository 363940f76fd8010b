package explore

import (
	"github.com/vidlens/vidlens/internal/record"
)

// Visible runs the fixed per-chart pipeline over the top drill frame:
// filter, then sort, then zoom window.
func Visible(s State) record.Rows {
	rows := s.Drill.Top().Data.Rows()
	rows = ApplyFilters(rows, s.Filters)
	rows = ApplySort(rows, s.Sort)
	rows = VisibleRange(rows, s.Window)
	if rows == nil {
		rows = record.Rows{}
	}
	return rows
}

// FilterControl is a filter selector as the renderer shows it: the
// descriptor with its options resolved and the current selection.
type FilterControl struct {
	Key      string        `json:"key"`
	Label    string        `json:"label"`
	Options  []Option      `json:"options"`
	Selected *record.Value `json:"selected,omitempty"`
}

// View is everything the rendering layer reads for one chart: the derived
// rows plus the state behind every control.
type View struct {
	Chart   string    `json:"chart"`
	Title   string    `json:"title,omitempty"`
	Kind    ChartKind `json:"kind,omitempty"`
	XField  string    `json:"x_field,omitempty"`
	YFields []string  `json:"y_fields,omitempty"`

	Rows  record.Rows `json:"rows"`
	Total int         `json:"total"`

	Filters        FilterSpec      `json:"filters"`
	FilterControls []FilterControl `json:"filter_controls,omitempty"`
	Sort           SortSpec        `json:"sort"`
	Window         ZoomWindow      `json:"window"`
	ShowBrush      bool            `json:"show_brush"`

	Breadcrumb []string `json:"breadcrumb"`
	Depth      int      `json:"depth"`
	CanGoBack  bool     `json:"can_go_back"`
	Drillable  bool     `json:"drillable"`

	Metrics        []string `json:"metrics"`
	MetricSuperset []string `json:"metric_superset,omitempty"`
}

// Render derives the view for s. Radar charts project each visible row onto
// the subject field and the selected metrics.
func Render(cfg *ChartConfig, s State) View {
	top := s.Drill.Top().Data
	rows := Visible(s)
	if cfg.Kind == KindRadar {
		rows = Project(rows, cfg.SubjectField, s.Metrics)
	}

	controls := make([]FilterControl, 0, len(cfg.Filters))
	for _, d := range cfg.Filters {
		fc := FilterControl{Key: d.Key, Label: d.Label, Options: d.ResolveOptions(top)}
		if v, ok := s.Filters.Get(d.Key); ok {
			fc.Selected = &v
		}
		controls = append(controls, fc)
	}

	return View{
		Chart:          cfg.ID,
		Title:          cfg.Title,
		Kind:           cfg.Kind,
		XField:         cfg.XField,
		YFields:        cfg.YFields,
		Rows:           rows,
		Total:          top.Len(),
		Filters:        s.Filters,
		FilterControls: controls,
		Sort:           s.Sort,
		Window:         s.Window,
		ShowBrush:      s.ShowBrush,
		Breadcrumb:     s.Drill.Labels(),
		Depth:          s.Drill.Depth(),
		CanGoBack:      s.Drill.CanGoBack(),
		Drillable:      cfg.Drillable(),
		Metrics:        s.Metrics.Selection(),
		MetricSuperset: s.Metrics.Superset(),
	}
}
