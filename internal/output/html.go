package output

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sync"
	"time"

	"github.com/vidlens/vidlens/internal/explore"
)

func init() {
	RegisterFormatter(NewHTMLFormatter())
}

// HTMLFormatter writes a view as a self-contained HTML page: the breadcrumb,
// the active controls and the visible rows, with the full view embedded as
// JSON for client-side charting.
type HTMLFormatter struct {
	nowFunc func() time.Time
}

// Compile-time interface check.
var _ Formatter = (*HTMLFormatter)(nil)

// NewHTMLFormatter returns a new HTMLFormatter.
func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{}
}

// Name returns the format name.
func (h *HTMLFormatter) Name() string {
	return "html"
}

var (
	htmlTmplOnce sync.Once
	htmlTmpl     *template.Template
)

// htmlData holds all template data for the page.
type htmlData struct {
	Title       string
	GeneratedAt string
	Breadcrumb  []string
	Status      string
	Visible     int
	Total       int
	Columns     []string
	Rows        [][]string
	View        explore.View
}

// Format writes the view as an HTML page to w.
func (h *HTMLFormatter) Format(v explore.View, w io.Writer) error {
	htmlTmplOnce.Do(func() {
		htmlTmpl = template.Must(template.New("view").Funcs(template.FuncMap{
			"json": func(v any) template.JS {
				b, _ := json.Marshal(v)
				return template.JS(b) //nolint:gosec // intentional unescaped embedding
			},
		}).Parse(htmlTemplate))
	})

	now := time.Now()
	if h.nowFunc != nil {
		now = h.nowFunc()
	}

	data := htmlData{
		Title:       v.Title,
		GeneratedAt: now.UTC().Format("2006-01-02 15:04:05 UTC"),
		Breadcrumb:  v.Breadcrumb,
		Status:      statusLine(v),
		Visible:     len(v.Rows),
		Total:       v.Total,
		View:        v,
	}
	if data.Title == "" {
		data.Title = v.Chart
	}
	if len(v.Rows) > 0 {
		data.Columns = Columns(v)
		for i := range v.Rows {
			data.Rows = append(data.Rows, cells(v, i, data.Columns))
		}
	}

	if err := htmlTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("execute html template: %w", err)
	}
	return nil
}
