package render

import (
	"bytes"
	"fmt"
	"html/template"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
{{ .Style }}</head>
<body>
<header class="viz-header"><h1>{{ .Title }}</h1><nav>{{ .Nav }}</nav></header>
<div class="viz-block">
<table class="viz-index">
<tr><th>Jeu de données</th><th>Source</th><th>Lignes valides</th><th>Lignes rejetées</th><th>État</th></tr>
{{- range .Datasets }}
<tr><td>{{ .Name }}</td><td>{{ .Source }}</td><td>{{ .Accepted }}</td><td>{{ .Rejected }}</td><td>{{ if .Error }}✗ {{ .Error }}{{ else }}✓{{ end }}</td></tr>
{{- end }}
</table>
</div>
<div class="viz-block">
<ul>
{{- range .Pages }}
<li><a href="{{ .File }}">{{ .Title }}</a></li>
{{- end }}
</ul>
</div>
</body>
</html>
`))

// Index renders the landing page listing the other pages and dataset health.
func (r *Renderer) Index(pages []Page) (Page, error) {
	const title = "Datacenters et efficacité énergétique"
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, struct {
		Title    string
		Style    template.HTML
		Nav      template.HTML
		Datasets []DatasetSummary
		Pages    []Page
	}{
		Title:    title,
		Style:    template.HTML(styleSheet),
		Nav:      template.HTML(r.nav()),
		Datasets: Summaries(r.app),
		Pages:    pages,
	})
	if err != nil {
		return Page{}, fmt.Errorf("render %s: %w", PageIndex, err)
	}
	return Page{Name: PageIndex, Title: title, HTML: buf.Bytes()}, nil
}
