package output

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - vidlens</title>
<style>
:root { --bg: #fff; --fg: #1a1a2e; --card-bg: #f8f9fa; --border: #dee2e6; --muted: #6c757d; --accent: #1890ff; }
@media (prefers-color-scheme: dark) {
  :root { --bg: #1a1a2e; --fg: #e9ecef; --card-bg: #16213e; --border: #495057; --muted: #adb5bd; --accent: #5b9aff; }
}
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: var(--bg); color: var(--fg); line-height: 1.5; padding: 1rem; max-width: 1400px; margin: 0 auto; }
header { margin-bottom: 1rem; }
header h1 { font-size: 1.5rem; }
header p, .status { color: var(--muted); font-size: .875rem; }
nav.breadcrumb span + span::before { content: " / "; color: var(--muted); }
nav.breadcrumb span:last-child { color: var(--accent); font-weight: 600; }
table { width: 100%; border-collapse: collapse; margin-top: 1rem; font-size: .875rem; }
th, td { padding: .375rem .5rem; border-bottom: 1px solid var(--border); text-align: left; }
th { background: var(--card-bg); }
</style>
</head>
<body>
<header>
<h1>{{.Title}}</h1>
<p>{{.Visible}} of {{.Total}} rows &middot; generated {{.GeneratedAt}}</p>
</header>
<nav class="breadcrumb">{{range .Breadcrumb}}<span>{{.}}</span>{{end}}</nav>
{{if .Status}}<p class="status">{{.Status}}</p>{{end}}
{{if .Rows}}
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{else}}
<p class="status">No rows match the current view.</p>
{{end}}
<script id="view-data" type="application/json">{{json .View}}</script>
</body>
</html>
`
