package simulation

import (
	"fmt"
	"math"

	"flowmine/internal/eventlog"
	"flowmine/internal/stats"
)

// Comparison summarizes observed against simulated case durations.
// PercentChange is the absolute percentage; Direction carries the sign.
type Comparison struct {
	BaselineMeanMinutes  float64 `json:"baselineMeanMinutes"`
	SimulatedMeanMinutes float64 `json:"simulatedMeanMinutes"`
	PercentChange        float64 `json:"percentChange"`
	Direction            string  `json:"direction"`
	SimulatedCases       int     `json:"simulatedCases"`
	Summary              string  `json:"summary"`
}

// Compare computes the before/after summary. The baseline is the mean over
// cases of each case's summed event durations; the simulated side is the
// mean final cumulative time over all non-empty synthetic cases. The
// second return is false when either side has nothing to compare.
func Compare(log eventlog.EventLog, results [][]SimulatedCase) (Comparison, bool) {
	var simDurations []float64
	for _, batch := range results {
		for _, c := range batch {
			if len(c) > 0 {
				simDurations = append(simDurations, c[len(c)-1].TimeMinutes)
			}
		}
	}
	if len(simDurations) == 0 {
		return Comparison{}, false
	}

	perCase := make(map[string]float64)
	for _, r := range log {
		if _, ok := perCase[r.CaseID]; !ok {
			perCase[r.CaseID] = 0
		}
		if r.Duration != nil {
			perCase[r.CaseID] += *r.Duration
		}
	}
	baseline := make([]float64, 0, len(perCase))
	for _, total := range perCase {
		baseline = append(baseline, total)
	}

	baselineMean := stats.CalculateMean(baseline)
	if baselineMean == 0 {
		return Comparison{}, false
	}
	simulatedMean := stats.CalculateMean(simDurations)

	improvement := (baselineMean - simulatedMean) / baselineMean * 100
	direction := "faster"
	if improvement < 0 {
		direction = "slower"
	}

	c := Comparison{
		BaselineMeanMinutes:  baselineMean,
		SimulatedMeanMinutes: simulatedMean,
		PercentChange:        math.Abs(improvement),
		Direction:            direction,
		SimulatedCases:       len(simDurations),
	}
	c.Summary = fmt.Sprintf("%.1f%% %s than baseline", c.PercentChange, c.Direction)
	return c, true
}
