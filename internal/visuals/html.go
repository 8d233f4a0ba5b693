package visuals

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"flowmine/internal/dfg"
	"flowmine/internal/stats"
)

//go:embed report.html.tmpl
var reportSource string

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"join": strings.Join,
	"add":  func(a, b int) int { return a + b },
}).Parse(reportSource))

// Report carries everything the HTML report shows. Empty sections are
// omitted from the page.
type Report struct {
	Title                 string
	GeneratedAt           time.Time
	Overview              stats.Overview
	ActivityBottlenecks   []stats.ActivityBottleneck
	TransitionBottlenecks []stats.TransitionBottleneck
	Variants              []dfg.Variant
	Elements              dfg.ElementList
}

// RenderReport writes the report as one self-contained HTML page. Mermaid
// renders client side through a CDN script include, so the file needs no
// local assets.
func RenderReport(w io.Writer, r Report) error {
	if r.Title == "" {
		r.Title = "Process Mining Report"
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}

	data := struct {
		Report
		DFGBody string
	}{Report: r, DFGBody: dfgChartBody(r.Elements)}

	if err := reportTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
