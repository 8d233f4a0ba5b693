// Package mcp exposes the process-mining engine as MCP tools over the
// official go-sdk. Handlers are thin: they resolve a dataset from the
// store, call into the analytical packages and shape the result; every
// analytical decision lives below this layer.
package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"flowmine/internal/config"
	"flowmine/internal/eventlog"
)

// Serve runs srv over stdio until ctx is cancelled.
func Serve(ctx context.Context, srv *mcp.Server) error {
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// New creates a fully configured MCP server with all tools registered.
func New(store *eventlog.LogStore, cfg *config.AppConfig) *mcp.Server {
	dt := &DatasetTools{Store: store, Cfg: cfg}
	disc := &DiscoveryTools{Store: store, Charts: cfg.EnableMermaidCharts}
	diag := &DiagnosticsTools{Store: store}
	fc := &ForecastingTools{Store: store, Cfg: cfg}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "flowmine",
		Version: "0.1.0",
	}, nil)

	// Dataset lifecycle
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "load_dataset",
		Description: "Load an event log from a CSV or XLSX file, normalize it and store it as a dataset. Returns the dataset id used by every other tool.",
	}, dt.LoadDataset)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_datasets",
		Description: "List all loaded datasets with row and case counts.",
	}, dt.ListDatasets)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "drop_dataset",
		Description: "Remove a dataset from the store and delete its cache files.",
	}, dt.DropDataset)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_case",
		Description: "Get the full timeline and metrics of a single case.",
	}, dt.GetCase)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "filter_cases",
		Description: "Filter cases by duration, event count, time window or attributes. Matching cases are stored as a NEW dataset so further analysis can run on the subset.",
	}, dt.FilterCases)

	// Process discovery
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_overview",
		Description: "Get dataset-level statistics: volumes, distinct activities and variants, time span, case duration averages, activity frequencies and daily event volume.",
	}, disc.GetOverview)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_process_map",
		Description: "Build the directly-follows process map. Supports a node column (activity, team, system, user), a minimum transition frequency, an explicit path allow-list and restriction to the top-k trace variants.",
	}, disc.GetProcessMap)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_variants",
		Description: "List the distinct process paths (trace variants) ordered by frequency.",
	}, disc.GetVariants)

	// Performance diagnostics
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_bottlenecks",
		Description: "Rank activities and transitions by bottleneck score (frequency times average duration or gap).",
	}, diag.GetBottlenecks)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_activity_performance",
		Description: "Get per-activity duration statistics (mean, median, percentiles) and the waiting times between consecutive activities.",
	}, diag.GetActivityPerformance)

	// Forecasting
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "predict_case",
		Description: "Train next-activity and remaining-time models on the dataset and predict the continuation of one case. An optional prefix cutoff truncates the case to its first N events first.",
	}, fc.PredictCase)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "evaluate_models",
		Description: "Train the prediction models on a case-disjoint 80/20 split and report accuracy, remaining-time MAE and the mean-predictor baseline MAE.",
	}, fc.EvaluateModels)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "simulate_process",
		Description: "Run a Monte-Carlo what-if simulation of the process. Interventions reshape activity duration distributions (DETERMINISTIC sets a fixed HH:MM:SS duration, SPEEDUP/SLOWDOWN scale by a rate in [0,1]) before simulated cases are compared against the observed baseline.",
		InputSchema: simulateProcessSchema(),
	}, fc.SimulateProcess)

	return srv
}

// simulateProcessSchema is written out by hand: the generated schema cannot
// express the intervention kind enum, and clients rely on it to validate
// what-if requests before they reach the engine.
func simulateProcessSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"dataset_id": {Type: "string", Description: "Dataset to simulate"},
			"interventions": {
				Type:        "array",
				Description: "Duration edits applied before the simulation runs",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"activity": {Type: "string", Description: "Activity whose durations are edited"},
						"kind": {
							Type:        "string",
							Enum:        []any{"DETERMINISTIC", "SPEEDUP", "SLOWDOWN"},
							Description: "DETERMINISTIC replaces every duration with a fixed value; SPEEDUP/SLOWDOWN scale durations",
						},
						"value": {Type: "string", Description: "HH:MM:SS for DETERMINISTIC, a rate in [0,1] for SPEEDUP/SLOWDOWN"},
					},
					Required: []string{"activity", "kind", "value"},
				},
			},
			"cases":      {Type: "integer", Description: "Simulated cases per iteration (default 200)"},
			"iterations": {Type: "integer", Description: "Independent iterations (default 3)"},
			"seed":       {Type: "integer", Description: "Seed for reproducible runs (optional)"},
		},
		Required: []string{"dataset_id"},
	}
}
