package report

import (
	"html/template"
	"io"
	"sort"

	"github.com/seo-check/seo-check/analyzer"
)

// HTMLRenderer writes a standalone dashboard page, no external assets.
type HTMLRenderer struct{}

func (HTMLRenderer) Ext() string { return "html" }

var htmlTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>SEO Audit Report</title>
<style>
  body { font-family: -apple-system, Segoe UI, sans-serif; margin: 2rem auto; max-width: 72rem; color: #1f2430; }
  .score { font-size: 3rem; font-weight: 700; }
  .rating { font-size: 1.2rem; color: #555; }
  table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
  th, td { border: 1px solid #d8dce3; padding: 0.4rem 0.6rem; text-align: left; font-size: 0.9rem; }
  th { background: #f3f5f8; }
  .CRITICAL { color: #b42318; font-weight: 600; }
  .WARNING { color: #b54708; }
  .NOTICE { color: #175cd3; }
  .GOOD { color: #067647; }
  .issue h3 { margin-bottom: 0.2rem; }
  .issue p { margin-top: 0; color: #555; }
</style>
</head>
<body>
<h1>SEO Audit Report</h1>
<div class="score">{{printf "%.1f" .Score}}</div>
<div class="rating">{{.Rating}}</div>

{{if .Penalties}}
<h2>Penalties</h2>
<ul>{{range .Penalties}}<li>{{.}}</li>{{end}}</ul>
{{end}}

{{range .Sections}}{{if .Issues}}
<h2>{{.Title}} ({{len .Issues}})</h2>
{{range .Issues}}
<div class="issue">
  <h3>{{.Name}} &mdash; {{.Count}}</h3>
  <p>{{.Description}}</p>
</div>
{{end}}
{{end}}{{end}}

{{if .Pages}}
<h2>Pages</h2>
<table>
<tr><th>URL</th><th>Status</th><th>Title</th><th>H1s</th><th>Words</th><th>Issues</th></tr>
{{range .Pages}}
<tr>
  <td>{{.URL}}</td>
  <td class="{{.Detail.Status}}">{{.Detail.Status}}</td>
  <td>{{.Detail.Title}}</td>
  <td>{{.Detail.H1Count}}</td>
  <td>{{.Detail.Words}}</td>
  <td>{{len .Detail.Issues}}</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>
`))

func (HTMLRenderer) Render(w io.Writer, r *Report) error {
	type section struct {
		Title  string
		Issues []analyzer.Issue
	}
	type page struct {
		URL    string
		Detail analyzer.PageDetail
	}

	m := r.Metrics
	pages := make([]page, 0, len(m.PageDetails))
	for u, d := range m.PageDetails {
		pages = append(pages, page{URL: u, Detail: d})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].URL < pages[j].URL })

	data := struct {
		Score     float64
		Rating    string
		Penalties []string
		Sections  []section
		Pages     []page
	}{
		Score:     r.Score,
		Rating:    r.Rating,
		Penalties: r.Penalties,
		Sections: []section{
			{Title: "Errors", Issues: m.Issues.Errors},
			{Title: "Warnings", Issues: m.Issues.Warnings},
			{Title: "Notices", Issues: m.Issues.Notices},
		},
		Pages: pages,
	}
	return htmlTmpl.Execute(w, data)
}
