package simulation

import (
	"math/rand"

	"flowmine/internal/markov"
)

// DefaultMaxTraceLength bounds Markov walks. A cyclic chain never reaches
// an absorbing state on its own, so the cap is not optional.
const DefaultMaxTraceLength = 500

// GenerateTrace walks the chain from start, sampling one successor per
// step, until an absorbing activity or the step cap. maxLen values below 1
// fall back to DefaultMaxTraceLength.
func GenerateTrace(chain markov.Chain, start string, maxLen int, rng *rand.Rand) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxTraceLength
	}

	trace := []string{start}
	current := start
	for len(trace) < maxLen {
		next, ok := markov.Sample(chain, current, rng)
		if !ok {
			break
		}
		trace = append(trace, next)
		current = next
	}
	return trace
}
