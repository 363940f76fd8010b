package output

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/record"
)

func testView(t *testing.T) explore.View {
	t.Helper()
	cfg := &explore.ChartConfig{
		ID:        "performance",
		Title:     "Video performance",
		Kind:      explore.KindBar,
		XField:    "title",
		YFields:   []string{"views"},
		RootLabel: "All videos",
		Filters:   []explore.FilterDescriptor{{Key: "category", Label: "Category"}},
	}
	data := record.NewDataset([]record.Record{
		{"title": record.String("Intro | part 1"), "views": record.Number(120), "category": record.String("Music")},
		{"title": record.String("Speedrun"), "views": record.Number(900), "category": record.String("Games")},
		{"title": record.String("Cover"), "views": record.Number(450), "category": record.String("Music")},
	})
	s := explore.NewState(cfg, data)
	s, _, err := explore.Reduce(cfg, s, explore.SetFilter{Field: "category", Value: record.String("Music")})
	require.NoError(t, err)
	s, _, err = explore.Reduce(cfg, s, explore.SetSort{Spec: explore.SortSpec{Field: "views"}})
	require.NoError(t, err)
	return explore.Render(cfg, s)
}

type stubFormatter struct{}

func (s *stubFormatter) Name() string                         { return "stub" }
func (s *stubFormatter) Format(_ explore.View, _ io.Writer) error { return nil }

func TestRegistry(t *testing.T) {
	for _, name := range []string{"table", "json", "markdown", "html", "echarts", "xlsx", "dot", "svg"} {
		f, err := GetFormatter(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.Name())
	}

	_, err := GetFormatter("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: dot, echarts, html, json")

	RegisterFormatter(&stubFormatter{})
	t.Cleanup(func() {
		fmtMu.Lock()
		delete(fmtRegistry, "stub")
		fmtMu.Unlock()
	})
	assert.Contains(t, Names(), "stub")
}

func TestColumns(t *testing.T) {
	v := testView(t)
	assert.Equal(t, []string{"title", "views", "category"}, Columns(v))

	radar := explore.View{
		Kind:    explore.KindRadar,
		XField:  "subject",
		YFields: []string{"ignored"},
		Metrics: []string{"likes", "views"},
	}
	assert.Equal(t, []string{"subject", "likes", "views"}, Columns(radar))
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "category=Music | sort views:desc", statusLine(testView(t)))
	assert.Empty(t, statusLine(explore.View{}))
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().Format(testView(t), &buf))
	out := buf.String()

	assert.Contains(t, out, "Video performance")
	assert.Contains(t, out, "All videos")
	assert.Contains(t, out, "2 of 3 rows")
	assert.Less(t, strings.Index(out, "Cover"), strings.Index(out, "Intro"), "sorted by views desc")
	assert.NotContains(t, out, "Speedrun")
}

func TestTableFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().Format(explore.View{Chart: "trend"}, &buf))
	assert.Contains(t, buf.String(), "0 of 0 rows")
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{nowFunc: func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }}
	var buf bytes.Buffer
	require.NoError(t, f.Format(testView(t), &buf))

	var env struct {
		View struct {
			Chart string `json:"chart"`
			Rows  []struct {
				Index int `json:"index"`
			} `json:"rows"`
			Breadcrumb []string `json:"breadcrumb"`
		} `json:"view"`
		Metadata JSONMetadata `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, "performance", env.View.Chart)
	require.Len(t, env.View.Rows, 2)
	assert.Equal(t, 2, env.View.Rows[0].Index)
	assert.Equal(t, []string{"All videos"}, env.View.Breadcrumb)
	assert.Equal(t, JSONMetadata{VisibleCount: 2, TotalCount: 3, GeneratedAt: "2026-03-01T12:00:00Z"}, env.Metadata)
	assert.Contains(t, buf.String(), "\n  ", "pretty-printed for in-memory writers")
}

func TestJSONFormatter_Compact(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{Compact: true}).Format(testView(t), &buf))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter().Format(testView(t), &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Video performance\n"))
	assert.Contains(t, out, "**Path:** All videos | **Rows:** 2 of 3")
	assert.Contains(t, out, "| title | views | category |")
	assert.Contains(t, out, "| --- | --- | --- |")
	assert.Contains(t, out, `| Intro \| part 1 | 120 | Music |`)
}

func TestMarkdownFormatter_NoRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownFormatter().Format(explore.View{Chart: "trend"}, &buf))
	assert.Contains(t, buf.String(), "# trend")
	assert.Contains(t, buf.String(), "No rows match")
}

func TestHTMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewHTMLFormatter().Format(testView(t), &buf))
	out := buf.String()

	assert.Contains(t, out, "<title>Video performance - vidlens</title>")
	assert.Contains(t, out, "<th>views</th>")
	assert.Contains(t, out, "<td>Cover</td>")
	assert.Contains(t, out, `<script id="view-data" type="application/json">{"chart":"performance"`)
}

func TestXLSXFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXFormatter().Format(testView(t), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck // test cleanup

	rows, err := f.GetRows(ViewSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"title", "views", "category"}, rows[0])
	assert.Equal(t, []string{"Cover", "450", "Music"}, rows[1])

	state, err := f.GetRows(StateSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"chart", "performance"}, state[0])
}

func TestGenerateDOT(t *testing.T) {
	v := testView(t)
	v.Breadcrumb = []string{"All videos", "Music"}
	dot := GenerateDOT(v)

	assert.True(t, strings.HasPrefix(dot, "digraph View {"))
	assert.Contains(t, dot, `f0 [label="All videos"`)
	assert.Contains(t, dot, "f0 -> f1;")
	assert.Contains(t, dot, `r2 [label="Cover\nviews: 450"`)
	assert.Contains(t, dot, "f1 -> r0;")
}

func TestGenerateDOT_TruncatesLeaves(t *testing.T) {
	rows := make(record.Rows, maxLeaves+5)
	for i := range rows {
		rows[i] = record.Row{Index: i, Record: record.Record{"x": record.Int(int64(i))}}
	}
	dot := GenerateDOT(explore.View{Chart: "c", XField: "x", Rows: rows})
	assert.Contains(t, dot, `"+5 more"`)
	assert.NotContains(t, dot, "r31 ")
}

func TestQuoteDOT(t *testing.T) {
	assert.Equal(t, `"say \"hi\"\nnow"`, quoteDOT("say \"hi\"\nnow"))
}

func TestSVGFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSVGFormatter().Format(testView(t), &buf))
	assert.Contains(t, buf.String(), "<svg")
}

func TestEChartsFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEChartsFormatter().Format(testView(t), &buf))
	out := buf.String()

	assert.Contains(t, out, "<title>Video performance - vidlens</title>")
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "Cover")
}

func TestEChartsFormatter_Kinds(t *testing.T) {
	rows := record.Rows{
		{Index: 0, Record: record.Record{"name": record.String("Music"), "value": record.Int(3)}},
		{Index: 1, Record: record.Record{"name": record.String("Games")}},
	}
	for _, kind := range []explore.ChartKind{explore.KindLine, explore.KindPie, explore.KindRadar} {
		v := explore.View{Chart: "categories", Kind: kind, XField: "name", YFields: []string{"value"}, Metrics: []string{"value"}, Rows: rows}
		var buf bytes.Buffer
		require.NoError(t, NewEChartsFormatter().Format(v, &buf), kind)
		assert.Contains(t, buf.String(), "Games", kind)
	}
}

func TestPlotValue(t *testing.T) {
	v := explore.View{Rows: record.Rows{{Record: record.Record{"n": record.Int(4), "s": record.String("x")}}}}
	assert.Equal(t, 4.0, plotValue(v, 0, "n"))
	assert.Nil(t, plotValue(v, 0, "s"))
	assert.Nil(t, plotValue(v, 0, "missing"))
}
