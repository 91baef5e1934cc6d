package render

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
)

// reportTemplate lays result cards into a standalone HTML page.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Sample results</title>
<style>
body { font-family: system-ui, sans-serif; background: #f4f6f8; margin: 2rem; }
.result-card { background: #fff; border-radius: 8px; box-shadow: 0 1px 4px rgba(0,0,0,.12); margin-bottom: 1.5rem; padding: 1rem 1.5rem; }
.result-header { font-weight: 600; margin-bottom: .5rem; }
.result-body h3 { margin: .5rem 0; }
.classification { line-height: 1.5; }
hr { border: none; border-top: 1px solid #e0e4e8; }
</style>
</head>
<body>
<h1>Sample results</h1>
{{range .Cards}}
<div class="result-card">
  <div class="result-header">Sample: {{.SampleID}}</div>
  <div class="result-body">
    <h3>Classification</h3>
    <div class="classification">{{.ClassificationHTML}}</div>
    <hr>
    <p><strong>Confidence:</strong> {{.Confidence}}</p>
    <p><strong>Evidence:</strong> {{.Evidence}}</p>
  </div>
</div>
{{end}}
</body>
</html>
`))

// WriteReport renders the cards as a standalone HTML page.
func WriteReport(w io.Writer, cards []Card) error {
	data := struct{ Cards []Card }{Cards: cards}
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// WriteReportFile writes the HTML report to the given path, creating parent
// directories as needed.
func WriteReportFile(path string, cards []Card) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()
	return WriteReport(f, cards)
}
