package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"flowmine/internal/eventlog"
	"flowmine/internal/stats"
)

// DiagnosticsTools answer "where does this process hurt": bottleneck
// rankings and per-activity performance profiles.
type DiagnosticsTools struct {
	Store *eventlog.LogStore
}

type GetBottlenecksInput struct {
	DatasetID string `json:"dataset_id" jsonschema:"Dataset to analyze"`
}

func (t *DiagnosticsTools) GetBottlenecks(_ context.Context, _ *mcp.CallToolRequest, in GetBottlenecksInput) (*mcp.CallToolResult, any, error) {
	rows, errRes := datasetRows(t.Store, in.DatasetID)
	if errRes != nil {
		return errRes, nil, nil
	}

	activities := stats.ActivityBottlenecks(rows)
	transitions := stats.TransitionBottlenecks(rows)
	if len(activities) == 0 && len(transitions) == 0 {
		return toolText("Not enough duration data to rank bottlenecks. Activities need observed durations; transitions need cases with at least two events."), nil, nil
	}

	log.Info().Str("tool", "get_bottlenecks").Str("dataset", in.DatasetID).Int("activities", len(activities)).Msg("Bottlenecks ranked")
	return toolJSON(map[string]any{
		"activity_bottlenecks":   activities,
		"transition_bottlenecks": transitions,
		"_guidance": []string{
			"Scores are frequency times average minutes: a rarely slow activity and a constantly mediocre one can rank the same.",
			"Transition gaps measure start-to-start time between consecutive activities; see get_activity_performance for pure waiting times.",
		},
	})
}

type GetActivityPerformanceInput struct {
	DatasetID string `json:"dataset_id" jsonschema:"Dataset to analyze"`
}

func (t *DiagnosticsTools) GetActivityPerformance(_ context.Context, _ *mcp.CallToolRequest, in GetActivityPerformanceInput) (*mcp.CallToolResult, any, error) {
	rows, errRes := datasetRows(t.Store, in.DatasetID)
	if errRes != nil {
		return errRes, nil, nil
	}

	summaries := stats.ActivitySummaries(rows)
	waiting := stats.WaitingTimes(rows)
	if len(summaries) == 0 {
		return toolText("Not enough duration data to profile activities."), nil, nil
	}

	log.Info().Str("tool", "get_activity_performance").Str("dataset", in.DatasetID).Int("activities", len(summaries)).Msg("Performance profiled")
	return toolJSON(map[string]any{
		"activity_performance": summaries,
		"waiting_times":        waiting,
		"_guidance": []string{
			"Waiting time is the gap between one activity finishing and the next one starting; negative values mean overlapping work.",
		},
	})
}
