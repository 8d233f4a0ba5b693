// Package simulation generates synthetic case populations by walking a
// Markov routing chain and sampling per-activity durations from observed
// distributions, optionally reshaped by what-if interventions.
package simulation

import "flowmine/internal/eventlog"

// Distributions maps an activity to its observed duration multiset in
// minutes.
type Distributions map[string][]float64

// BaselineDistributions collects per-activity durations from the log,
// dropping rows without a known duration. Activities that never carry a
// duration are absent from the result.
func BaselineDistributions(log eventlog.EventLog) Distributions {
	dists := make(Distributions)
	for _, r := range log {
		if r.Duration == nil {
			continue
		}
		dists[r.Activity] = append(dists[r.Activity], *r.Duration)
	}
	return dists
}

// Copy returns a deep copy. Interventions operate on copies so a baseline
// shared between queries is never mutated.
func (d Distributions) Copy() Distributions {
	out := make(Distributions, len(d))
	for act, values := range d {
		c := make([]float64, len(values))
		copy(c, values)
		out[act] = c
	}
	return out
}
