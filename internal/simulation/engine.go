package simulation

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"flowmine/internal/eventlog"
	"flowmine/internal/markov"
)

// Engine performs the Monte-Carlo process simulation.
type Engine struct {
	chain       markov.Chain
	dists       Distributions
	maxTraceLen int
	seed        int64
	rng         *rand.Rand
}

// Step is one visited activity with the cumulative minutes at which it
// completed.
type Step struct {
	Activity    string  `json:"activity"`
	TimeMinutes float64 `json:"timeMinutes"`
}

// SimulatedCase is the timeline of one Monte-Carlo rollout.
type SimulatedCase []Step

// NewEngine builds an engine over a routing chain and a (possibly
// intervened) duration set. maxTraceLen values below 1 fall back to
// DefaultMaxTraceLength.
func NewEngine(chain markov.Chain, dists Distributions, maxTraceLen int) *Engine {
	if maxTraceLen <= 0 {
		maxTraceLen = DefaultMaxTraceLength
	}
	seed := time.Now().UnixNano()
	return &Engine{
		chain:       chain,
		dists:       dists,
		maxTraceLen: maxTraceLen,
		seed:        seed,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// SetSeed re-seeds the engine for reproducible runs.
func (e *Engine) SetSeed(seed int64) {
	e.seed = seed
	e.rng = rand.New(rand.NewSource(seed))
}

// FindStartActivity returns the most frequent first activity across cases.
// Frequency ties resolve to the lexicographically smallest label so the
// choice is stable run to run.
func FindStartActivity(log eventlog.EventLog) string {
	counts := make(map[string]int)
	for _, c := range eventlog.Cases(log) {
		if len(c.Trace) > 0 {
			counts[c.Trace[0]]++
		}
	}

	best, bestCount := "", 0
	for act, n := range counts {
		if n > bestCount || (n == bestCount && act < best) {
			best, bestCount = act, n
		}
	}
	return best
}

// SimulateCase produces one synthetic case: a Markov walk where every
// visited activity samples one duration uniformly from its distribution.
// Activities without observed durations appear in the walk but add no
// timeline step.
func (e *Engine) SimulateCase(start string) SimulatedCase {
	return e.simulateWith(e.rng, start)
}

func (e *Engine) simulateWith(rng *rand.Rand, start string) SimulatedCase {
	var out SimulatedCase
	t := 0.0
	for _, act := range GenerateTrace(e.chain, start, e.maxTraceLen, rng) {
		dist := e.dists[act]
		if len(dist) == 0 {
			continue
		}
		t += dist[rng.Intn(len(dist))]
		out = append(out, Step{Activity: act, TimeMinutes: t})
	}
	return out
}

// Run executes iterations independent batches of nCases rollouts each.
// Batches run in parallel, every batch on its own rng seeded from the
// engine seed plus the batch index, so seeded results reproduce no matter
// how the goroutines are scheduled. Non-positive sizes fall back to 200
// cases and 3 iterations.
func (e *Engine) Run(ctx context.Context, start string, nCases, iterations int) ([][]SimulatedCase, error) {
	if nCases <= 0 {
		nCases = 200
	}
	if iterations <= 0 {
		iterations = 3
	}

	results := make([][]SimulatedCase, iterations)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < iterations; i++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(e.seed + int64(i)))
			batch := make([]SimulatedCase, nCases)
			for j := range batch {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				batch[j] = e.simulateWith(rng, start)
			}
			results[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
