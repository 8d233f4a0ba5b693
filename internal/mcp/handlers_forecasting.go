package mcp

import (
	"context"
	"errors"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"flowmine/internal/config"
	"flowmine/internal/eventlog"
	"flowmine/internal/markov"
	"flowmine/internal/prediction"
	"flowmine/internal/simulation"
	"flowmine/internal/stats"
)

// ForecastingTools answer "what happens next": supervised case
// continuation models and Monte-Carlo what-if simulation.
type ForecastingTools struct {
	Store *eventlog.LogStore
	Cfg   *config.AppConfig
}

type PredictCaseInput struct {
	DatasetID    string `json:"dataset_id" jsonschema:"Dataset to train on"`
	CaseID       string `json:"case_id" jsonschema:"Case whose continuation is predicted"`
	TopK         int    `json:"top_k,omitempty" jsonschema:"Number of next-activity candidates to return (default 3)"`
	PrefixCutoff *int   `json:"prefix_cutoff,omitempty" jsonschema:"Truncate the case to its first N events before predicting (optional)"`
	Seed         *int64 `json:"seed,omitempty" jsonschema:"Seed for a reproducible train/test split (optional)"`
}

func (t *ForecastingTools) PredictCase(_ context.Context, _ *mcp.CallToolRequest, in PredictCaseInput) (*mcp.CallToolResult, any, error) {
	rows, errRes := datasetRows(t.Store, in.DatasetID)
	if errRes != nil {
		return errRes, nil, nil
	}
	if in.CaseID == "" {
		return toolError("case_id is required"), nil, nil
	}

	bundle, err := t.train(rows, in.Seed)
	if err != nil {
		if errors.Is(err, prediction.ErrInsufficientData) {
			return toolText("Not enough data to train prediction models: the dataset needs at least two cases with two or more events each."), nil, nil
		}
		return toolError("Training failed: %v", err), nil, nil
	}

	pred, err := bundle.PredictForCase(rows, in.CaseID, in.TopK, in.PrefixCutoff)
	if err != nil {
		return toolError("Prediction failed: %v", err), nil, nil
	}

	log.Info().Str("tool", "predict_case").Str("dataset", in.DatasetID).Str("case", in.CaseID).Msg("Case prediction computed")
	return toolJSON(map[string]any{
		"prediction": pred,
		"evaluation": bundle.Eval,
		"_guidance": []string{
			"nextActivities come from the trained classifier; markovNext is the raw transition-frequency view for comparison.",
			"When a prefix cutoff is set the true remaining time is withheld, since the model must not see the case's future.",
		},
	})
}

type EvaluateModelsInput struct {
	DatasetID string `json:"dataset_id" jsonschema:"Dataset to train on"`
	Seed      *int64 `json:"seed,omitempty" jsonschema:"Seed for a reproducible train/test split (optional)"`
}

func (t *ForecastingTools) EvaluateModels(_ context.Context, _ *mcp.CallToolRequest, in EvaluateModelsInput) (*mcp.CallToolResult, any, error) {
	rows, errRes := datasetRows(t.Store, in.DatasetID)
	if errRes != nil {
		return errRes, nil, nil
	}

	bundle, err := t.train(rows, in.Seed)
	if err != nil {
		if errors.Is(err, prediction.ErrInsufficientData) {
			return toolText("Not enough data to train prediction models: the dataset needs at least two cases with two or more events each."), nil, nil
		}
		return toolError("Training failed: %v", err), nil, nil
	}

	log.Info().Str("tool", "evaluate_models").Str("dataset", in.DatasetID).Float64("accuracy", bundle.Eval.NextActivityAccuracy).Msg("Models evaluated")
	return toolJSON(map[string]any{
		"evaluation": bundle.Eval,
		"_guidance": []string{
			"baselineMae is what a constant predictor answering the test-set mean achieves. The regressor only adds value when its MAE is below that.",
			"Metrics come from a case-disjoint split: no case contributes prefixes to both sides.",
		},
	})
}

func (t *ForecastingTools) train(rows eventlog.EventLog, seed *int64) (*prediction.Bundle, error) {
	opts := prediction.DefaultTrainOptions()
	if seed != nil {
		opts.Seed = *seed
	}
	return prediction.Train(rows, opts)
}

type InterventionInput struct {
	Activity string `json:"activity" jsonschema:"Activity whose durations are edited"`
	Kind     string `json:"kind" jsonschema:"DETERMINISTIC, SPEEDUP or SLOWDOWN"`
	Value    string `json:"value" jsonschema:"HH:MM:SS for DETERMINISTIC, a rate in [0,1] for the others"`
}

type SimulateProcessInput struct {
	DatasetID     string              `json:"dataset_id" jsonschema:"Dataset to simulate"`
	Interventions []InterventionInput `json:"interventions,omitempty" jsonschema:"Duration edits applied before the simulation runs"`
	Cases         int                 `json:"cases,omitempty" jsonschema:"Simulated cases per iteration (default 200)"`
	Iterations    int                 `json:"iterations,omitempty" jsonschema:"Independent iterations (default 3)"`
	Seed          *int64              `json:"seed,omitempty" jsonschema:"Seed for reproducible runs (optional)"`
}

// ActivityProfile shows one activity's duration distribution before and
// after interventions.
type ActivityProfile struct {
	Activity            string  `json:"activity"`
	Samples             int     `json:"samples"`
	BaselineMeanMinutes float64 `json:"baselineMeanMinutes"`
	AdjustedMeanMinutes float64 `json:"adjustedMeanMinutes"`
}

func (t *ForecastingTools) SimulateProcess(ctx context.Context, _ *mcp.CallToolRequest, in SimulateProcessInput) (*mcp.CallToolResult, any, error) {
	rows, errRes := datasetRows(t.Store, in.DatasetID)
	if errRes != nil {
		return errRes, nil, nil
	}

	baseline := simulation.BaselineDistributions(rows)
	if len(baseline) == 0 {
		return toolText("No activity durations observed in this dataset; there is nothing to simulate."), nil, nil
	}
	chain := markov.Build(rows, nil)
	if len(chain) == 0 {
		return toolText("No transitions observed: every case has a single event, so a simulated walk cannot move."), nil, nil
	}
	start := simulation.FindStartActivity(rows)

	ivs := make([]simulation.Intervention, 0, len(in.Interventions))
	for _, iv := range in.Interventions {
		ivs = append(ivs, simulation.Intervention{Activity: iv.Activity, Kind: simulation.Kind(iv.Kind), Value: iv.Value})
	}
	adjusted, failures := simulation.ApplyAll(baseline, ivs)

	cases, iterations := in.Cases, in.Iterations
	maxTrace := 0
	if t.Cfg != nil {
		if cases <= 0 {
			cases = t.Cfg.SimulationCases
		}
		if iterations <= 0 {
			iterations = t.Cfg.SimulationIterations
		}
		maxTrace = t.Cfg.MaxTraceLength
	}

	engine := simulation.NewEngine(chain, adjusted, maxTrace)
	if in.Seed != nil {
		engine.SetSeed(*in.Seed)
	}

	results, err := engine.Run(ctx, start, cases, iterations)
	if err != nil {
		return toolError("Simulation failed: %v", err), nil, nil
	}

	comparison, ok := simulation.Compare(rows, results)
	if !ok {
		return toolText("The simulation produced no comparable cases; the start activity may have no observed durations."), nil, nil
	}

	res := map[string]any{
		"comparison":        comparison,
		"start_activity":    start,
		"cases":             cases,
		"iterations":        iterations,
		"activity_profiles": buildProfiles(baseline, adjusted),
		"_guidance": []string{
			"The baseline mean sums observed activity durations per case; simulated cases accumulate sampled durations along a Markov walk.",
			"Interventions only reshape duration distributions. Routing probabilities stay as observed.",
		},
	}
	if len(failures) > 0 {
		msgs := make([]string, 0, len(failures))
		for _, f := range failures {
			msgs = append(msgs, f.Error())
		}
		res["intervention_errors"] = msgs
	}

	log.Info().Str("tool", "simulate_process").Str("dataset", in.DatasetID).Int("cases", cases).Int("iterations", iterations).Str("direction", comparison.Direction).Msg("Simulation complete")
	return toolJSON(res)
}

func buildProfiles(baseline, adjusted simulation.Distributions) []ActivityProfile {
	profiles := make([]ActivityProfile, 0, len(baseline))
	for act, dist := range baseline {
		profiles = append(profiles, ActivityProfile{
			Activity:            act,
			Samples:             len(dist),
			BaselineMeanMinutes: stats.CalculateMean(dist),
			AdjustedMeanMinutes: stats.CalculateMean(adjusted[act]),
		})
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Activity < profiles[j].Activity
	})
	return profiles
}
