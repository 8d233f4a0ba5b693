package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"flowmine/internal/dfg"
	"flowmine/internal/eventlog"
	"flowmine/internal/stats"
	"flowmine/internal/visuals"
)

// DiscoveryTools answer "what does this process look like": dataset
// overviews, process maps and trace variants.
type DiscoveryTools struct {
	Store  *eventlog.LogStore
	Charts bool
}

type GetOverviewInput struct {
	DatasetID string `json:"dataset_id" jsonschema:"Dataset to summarize"`
}

func (t *DiscoveryTools) GetOverview(_ context.Context, _ *mcp.CallToolRequest, in GetOverviewInput) (*mcp.CallToolResult, any, error) {
	rows, errRes := datasetRows(t.Store, in.DatasetID)
	if errRes != nil {
		return errRes, nil, nil
	}

	overview := stats.ComputeOverview(rows)
	freqs := stats.ActivityFrequencies(rows)
	daily := stats.DailyVolume(rows)

	res := map[string]any{
		"overview":     overview,
		"activities":   freqs,
		"daily_volume": daily,
		"_guidance": []string{
			"Case durations are end-to-end wall clock minutes, not summed activity time.",
			"Use get_process_map next to see how the activities connect.",
		},
	}
	if t.Charts {
		res["visual_activity_frequency"] = visuals.GenerateFrequencyChart(freqs)
		res["visual_daily_volume"] = visuals.GenerateVolumeChart(daily)
	}

	log.Info().Str("tool", "get_overview").Str("dataset", in.DatasetID).Int("rows", overview.Rows).Msg("Overview computed")
	return toolJSON(res)
}

type GetProcessMapInput struct {
	DatasetID    string   `json:"dataset_id" jsonschema:"Dataset to map"`
	Column       string   `json:"column,omitempty" jsonschema:"Node abstraction: activity (default), team, system or user"`
	MinFrequency int      `json:"min_frequency,omitempty" jsonschema:"Drop transitions observed fewer times than this"`
	AllowedPaths []string `json:"allowed_paths,omitempty" jsonschema:"Allow-list of transitions as 'Source|Target' strings"`
	TopVariants  int      `json:"top_variants,omitempty" jsonschema:"Restrict to cases following the k most frequent variants before building the map"`
}

func (t *DiscoveryTools) GetProcessMap(_ context.Context, _ *mcp.CallToolRequest, in GetProcessMapInput) (*mcp.CallToolResult, any, error) {
	rows, errRes := datasetRows(t.Store, in.DatasetID)
	if errRes != nil {
		return errRes, nil, nil
	}

	opts := dfg.Options{
		Column:       dfg.ColumnActivity,
		MinFrequency: in.MinFrequency,
		TopVariants:  in.TopVariants,
	}
	if in.Column != "" {
		opts.Column = dfg.Column(in.Column)
	}
	if len(in.AllowedPaths) > 0 {
		allowed, err := dfg.ParsePaths(in.AllowedPaths)
		if err != nil {
			return toolError("Invalid allowed_paths: %v", err), nil, nil
		}
		opts.AllowedPaths = allowed
	}

	graph := dfg.BuildFiltered(rows, opts)
	elements := graph.Elements()
	if len(elements.Edges) == 0 {
		return toolText("No transitions survive the requested filters. Relax min_frequency or the path allow-list."), nil, nil
	}

	res := map[string]any{
		"column":      string(opts.Column),
		"elements":    elements,
		"transitions": graph.TotalTransitions(),
		"_guidance": []string{
			"Edge weights count how often the transition was observed across all cases.",
			"Use get_bottlenecks to find out which of these transitions hurt the most.",
		},
	}
	if t.Charts {
		res["visual_process_map"] = visuals.GenerateDFGChart(elements)
	}

	log.Info().Str("tool", "get_process_map").Str("dataset", in.DatasetID).Int("edges", len(elements.Edges)).Msg("Process map built")
	return toolJSON(res)
}

type GetVariantsInput struct {
	DatasetID string `json:"dataset_id" jsonschema:"Dataset to analyze"`
	Top       int    `json:"top,omitempty" jsonschema:"Number of variants to return (default 10)"`
}

func (t *DiscoveryTools) GetVariants(_ context.Context, _ *mcp.CallToolRequest, in GetVariantsInput) (*mcp.CallToolResult, any, error) {
	rows, errRes := datasetRows(t.Store, in.DatasetID)
	if errRes != nil {
		return errRes, nil, nil
	}

	variants := dfg.Variants(rows, dfg.ColumnActivity)
	if len(variants) == 0 {
		return toolText("The dataset contains no complete traces."), nil, nil
	}

	top := in.Top
	if top <= 0 {
		top = 10
	}
	if top < len(variants) {
		variants = variants[:top]
	}

	return toolJSON(map[string]any{
		"variants": variants,
		"_guidance": []string{
			"Variants are exact activity sequences: two cases belong to the same variant only when their full traces match.",
		},
	})
}
