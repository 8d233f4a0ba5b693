// Package markov builds first-order routing models over activity sequences:
// the probability of the next activity depends only on the current one.
// Both the prediction and simulation engines route through these chains.
package markov

import (
	"math/rand"
	"sort"

	"flowmine/internal/eventlog"
)

// Chain maps an activity to the probability distribution over its direct
// successors. Probabilities per source sum to 1.0; activities that never
// have a successor carry no entry at all.
type Chain map[string]map[string]float64

// Successor is one outgoing routing option for an activity.
type Successor struct {
	Activity    string  `json:"activity"`
	Probability float64 `json:"probability"`
}

// Build counts adjacent activity pairs per case and normalizes the counts
// into per-source probability distributions. When only is non-nil, cases
// outside the set are skipped; the prediction engine uses this to build
// chains from training cases exclusively.
func Build(log eventlog.EventLog, only map[string]struct{}) Chain {
	counts := make(map[string]map[string]int)
	for id, trace := range eventlog.Traces(log) {
		if only != nil {
			if _, ok := only[id]; !ok {
				continue
			}
		}
		for i := 0; i+1 < len(trace); i++ {
			src, dst := trace[i], trace[i+1]
			if counts[src] == nil {
				counts[src] = make(map[string]int)
			}
			counts[src][dst]++
		}
	}

	chain := make(Chain, len(counts))
	for src, successors := range counts {
		total := 0
		for _, n := range successors {
			total += n
		}
		probs := make(map[string]float64, len(successors))
		for dst, n := range successors {
			probs[dst] = float64(n) / float64(total)
		}
		chain[src] = probs
	}
	return chain
}

// TopK returns the k most probable successors of activity, highest first.
// Equal probabilities order alphabetically. A terminal activity yields nil.
func TopK(chain Chain, activity string, k int) []Successor {
	probs := chain[activity]
	if len(probs) == 0 || k <= 0 {
		return nil
	}

	out := make([]Successor, 0, len(probs))
	for a, p := range probs {
		out = append(out, Successor{Activity: a, Probability: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Activity < out[j].Activity })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Probability > out[j].Probability })

	if k < len(out) {
		out = out[:k]
	}
	return out
}

// Sample draws one successor of activity according to the chain's
// probabilities. The boolean is false when the activity is terminal.
// Successors are walked in sorted order so a seeded rng replays exactly.
func Sample(chain Chain, activity string, rng *rand.Rand) (string, bool) {
	probs := chain[activity]
	if len(probs) == 0 {
		return "", false
	}

	keys := make([]string, 0, len(probs))
	for a := range probs {
		keys = append(keys, a)
	}
	sort.Strings(keys)

	r := rng.Float64()
	cumulative := 0.0
	for _, a := range keys {
		cumulative += probs[a]
		if r < cumulative {
			return a, true
		}
	}
	// Rounding can leave the cumulative sum a hair under 1.0.
	return keys[len(keys)-1], true
}
