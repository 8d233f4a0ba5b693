package visuals_test

import (
	"strings"
	"testing"
	"time"

	"flowmine/internal/stats"
	"flowmine/internal/visuals"
)

func TestRenderReport(t *testing.T) {
	r := visuals.Report{
		Title:       "Fulfillment",
		GeneratedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Overview: stats.Overview{
			Rows:                      12,
			Cases:                     4,
			Activities:                4,
			Variants:                  2,
			FirstEvent:                time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			LastEvent:                 time.Date(2024, 3, 2, 17, 0, 0, 0, time.UTC),
			MeanCaseDurationMinutes:   50,
			MedianCaseDurationMinutes: 45,
		},
		ActivityBottlenecks: []stats.ActivityBottleneck{
			{Activity: "Pack", Frequency: 4, AvgDurationMinutes: 30, Score: 120},
		},
		TransitionBottlenecks: []stats.TransitionBottleneck{
			{Source: "Order", Target: "Pack", Frequency: 4, AvgGapMinutes: 15, Score: 60},
		},
		Elements: fulfillmentElements(),
	}

	var sb strings.Builder
	if err := visuals.RenderReport(&sb, r); err != nil {
		t.Fatalf("RenderReport: %v", err)
	}
	html := sb.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Fulfillment</title>",
		"Generated 2024-03-01 09:00",
		"<td class=\"num\">12</td>",
		"50.0",
		"graph LR",
		"n0[&#34;Cancel&#34;]",
		"n1 --&gt;|4| n2",
		"<td>Pack</td>",
		"mermaid.initialize",
		"cdn.jsdelivr.net/npm/mermaid",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderReportDefaults(t *testing.T) {
	var sb strings.Builder
	if err := visuals.RenderReport(&sb, visuals.Report{}); err != nil {
		t.Fatalf("RenderReport: %v", err)
	}
	html := sb.String()

	if !strings.Contains(html, "<title>Process Mining Report</title>") {
		t.Error("empty title should fall back to the default")
	}
	if strings.Contains(html, "Process Map") {
		t.Error("report without elements should omit the process map section")
	}
	if strings.Contains(html, "mermaid.initialize") {
		t.Error("report without charts should not pull in the Mermaid script")
	}
}
