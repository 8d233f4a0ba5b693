// Package visuals renders derived tables as Mermaid text charts and as a
// self-contained HTML report. Charts are plain strings so MCP clients and
// markdown viewers can display them without a rendering dependency.
package visuals

import (
	"fmt"
	"math"
	"strings"
	"time"

	"flowmine/internal/dfg"
	"flowmine/internal/stats"
)

// GenerateDFGChart creates a Mermaid graph LR diagram of the process map
// with transition counts as edge labels.
func GenerateDFGChart(el dfg.ElementList) string {
	body := dfgChartBody(el)
	if body == "" {
		return ""
	}
	return "```mermaid\n" + body + "```"
}

// dfgChartBody builds the unfenced diagram text. The HTML report embeds it
// directly; GenerateDFGChart wraps it for markdown clients.
func dfgChartBody(el dfg.ElementList) string {
	if len(el.Edges) == 0 {
		return ""
	}

	ids := make(map[string]string, len(el.Nodes))
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for i, n := range el.Nodes {
		id := fmt.Sprintf("n%d", i)
		ids[n.ID] = id
		// Quotes inside a quoted Mermaid label break the parser
		label := strings.ReplaceAll(n.ID, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, label))
	}
	for _, e := range el.Edges {
		sb.WriteString(fmt.Sprintf("    %s -->|%d| %s\n", ids[e.Source], e.Weight, ids[e.Target]))
	}

	return sb.String()
}

// GenerateFrequencyChart creates a Mermaid bar chart of activity frequencies.
func GenerateFrequencyChart(freqs []stats.ActivityFrequency) string {
	if len(freqs) == 0 {
		return ""
	}

	// Limit to 15 activities to avoid overwhelming the text chart context
	limit := len(freqs)
	if limit > 15 {
		limit = 15
	}

	var labels []string
	var values []string
	maxVal := 0

	for i := 0; i < limit; i++ {
		f := freqs[i]
		labels = append(labels, fmt.Sprintf("\"%s\"", strings.ReplaceAll(f.Activity, " ", "_")))
		values = append(values, fmt.Sprintf("%d", f.Count))
		if f.Count > maxVal {
			maxVal = f.Count
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Activity Frequency\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Events\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateVolumeChart creates a Mermaid line chart of events per day.
func GenerateVolumeChart(daily []stats.DailyCount) string {
	if len(daily) == 0 {
		return ""
	}

	// Subsample points if the chart is too wide for Mermaid's layout engine
	// Typically Mermaid xychart starts overflowing/overlapping text around 60 points
	subsampleRate := 1
	if len(daily) > 60 {
		subsampleRate = int(math.Ceil(float64(len(daily)) / 60.0))
	}

	var labels []string
	var values []string
	maxVal := 0

	for i, d := range daily {
		if d.Count > maxVal {
			maxVal = d.Count
		}
		if i%subsampleRate != 0 && i != len(daily)-1 {
			continue
		}
		label := d.Day
		if ts, err := time.Parse("2006-01-02", d.Day); err == nil {
			label = ts.Format("Jan02")
		}
		labels = append(labels, fmt.Sprintf("\"%s\"", label))
		values = append(values, fmt.Sprintf("%d", d.Count))
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Event Volume Per Day\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Events\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}
