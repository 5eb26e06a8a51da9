package formatter

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/desertthunder/dupx/internal/models"
	"github.com/desertthunder/dupx/internal/shared"
)

// evaluationTemplate is the standalone HTML review page written next to the
// JSON evaluation. It inlines its styles so the file opens anywhere.
const evaluationTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Duplicate Evaluation</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #1a1a2e; }
h1 { border-bottom: 2px solid #7c6f64; padding-bottom: 0.3rem; }
h2 { margin-top: 2rem; font-size: 1rem; color: #504945; }
p.meta { color: #665c54; }
ul.totals { list-style: none; padding: 0; display: flex; gap: 1.5rem; }
ul.totals li { background: #f2e5bc; border-radius: 4px; padding: 0.4rem 0.8rem; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #e0dbd2; }
tr.keep td:first-child { color: #427b58; font-weight: 600; }
tr.remove td:first-child { color: #9d0006; font-weight: 600; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
</style>
</head>
<body>
<h1>Duplicate Evaluation</h1>
<p class="meta">Library: {{.LibraryPath}}</p>
<ul class="totals">
<li>{{.GroupCount}} groups</li>
<li>{{.Allowlisted}} allowlisted</li>
<li>{{.KeepCount}} keep</li>
<li>{{.RemoveCount}} remove</li>
</ul>
{{range .Groups}}<section>
<h2>{{.Kind}}: <code>{{.Key}}</code></h2>
<table>
<tr><th>Verdict</th><th>ID</th><th>Track</th><th>Score</th><th>File</th><th>Reason</th></tr>
{{range .Tracks}}<tr class="{{if .Keep}}keep{{else}}remove{{end}}">
<td>{{if .Keep}}KEEP{{else}}REMOVE{{end}}</td>
<td class="num">{{.Track.ID}}</td>
<td>{{.Track.Artist}} - {{.Track.Title}}</td>
<td class="num">{{printf "%.0f" .Score}}</td>
<td>{{if .Exists}}present{{else}}missing{{end}}</td>
<td>{{.Reason}}</td>
</tr>
{{end}}</table>
</section>
{{end}}</body>
</html>
`

var evaluationPage = template.Must(template.New("evaluation").Parse(evaluationTemplate))

// reportTemplate is the standalone HTML report page. Like the text renderer
// it carries nothing run-specific, so rerendering an unchanged report yields
// identical bytes.
const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Duplicate Report</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #1a1a2e; }
h1 { border-bottom: 2px solid #7c6f64; padding-bottom: 0.3rem; }
h2 { margin-top: 2rem; color: #504945; }
h3 { margin-bottom: 0.3rem; font-size: 0.95rem; }
h3 code { background: #f2e5bc; border-radius: 4px; padding: 0.1rem 0.4rem; }
p.meta { color: #665c54; }
ul.totals { list-style: none; padding: 0; display: flex; gap: 1.5rem; }
ul.totals li { background: #f2e5bc; border-radius: 4px; padding: 0.4rem 0.8rem; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1rem; }
th, td { text-align: left; padding: 0.3rem 0.6rem; border-bottom: 1px solid #e0dbd2; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
td.path { color: #665c54; font-size: 0.85rem; }
p.none { color: #665c54; font-style: italic; }
</style>
</head>
<body>
<h1>Duplicate Report</h1>
<p class="meta">Library: {{.LibraryPath}}</p>
<ul class="totals">
<li>{{.TrackCount}} tracks</li>
<li>{{.SkippedCount}} skipped</li>
<li>{{len .MetadataGroups}} metadata groups</li>
<li>{{len .LocationGroups}} location groups</li>
</ul>
{{if not .GroupCount}}<p class="none">No duplicates found.</p>{{end}}
<h2>Metadata Duplicates</h2>
{{if not .MetadataGroups}}<p class="none">none</p>{{end}}
{{range .MetadataGroups}}<section>
<h3><code>{{.Key}}</code></h3>
<table>
<tr><th>ID</th><th>Track</th><th>Album</th><th>Length</th><th>Location</th></tr>
{{range .Tracks}}<tr>
<td class="num">{{.ID}}</td>
<td>{{.Artist}} - {{.Title}}</td>
<td>{{.Album}}</td>
<td class="num">{{.Seconds}}s</td>
<td class="path">{{.Location}}</td>
</tr>
{{end}}</table>
</section>
{{end}}<h2>Location Duplicates</h2>
{{if not .LocationGroups}}<p class="none">none</p>{{end}}
{{range .LocationGroups}}<section>
<h3><code>{{.Key}}</code></h3>
<table>
<tr><th>ID</th><th>Track</th><th>Album</th><th>Length</th></tr>
{{range .Tracks}}<tr>
<td class="num">{{.ID}}</td>
<td>{{.Artist}} - {{.Title}}</td>
<td>{{.Album}}</td>
<td class="num">{{.Seconds}}s</td>
</tr>
{{end}}</table>
</section>
{{end}}</body>
</html>
`

var reportPage = template.Must(template.New("report").Parse(reportTemplate))

// RenderReportHTML renders a report as a standalone HTML page.
func RenderReportHTML(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportPage.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to render report page: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderEvaluationHTML renders an evaluation as a standalone HTML page.
func RenderEvaluationHTML(eval *models.Evaluation) ([]byte, error) {
	var buf bytes.Buffer
	if err := evaluationPage.Execute(&buf, eval); err != nil {
		return nil, fmt.Errorf("failed to render evaluation page: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteEvaluationHTML renders the HTML review page and writes it to path.
//
// Defaults to evaluation.html in the working directory.
func WriteEvaluationHTML(eval *models.Evaluation, path string) (string, error) {
	if path == "" {
		path = "evaluation.html"
	}

	data, err := RenderEvaluationHTML(eval)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrExportFailed, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrExportFailed, err)
	}

	return path, nil
}
