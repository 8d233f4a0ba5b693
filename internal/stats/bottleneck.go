// Package stats computes performance aggregates over normalized event logs:
// bottleneck rankings, activity summaries, waiting times, case metrics and
// dataset-level statistics. All functions are pure; inputs are never mutated.
package stats

import (
	"sort"

	"flowmine/internal/eventlog"
)

// ActivityBottleneck ranks one activity by throughput impact.
type ActivityBottleneck struct {
	Activity           string  `json:"activity"`
	Frequency          int     `json:"frequency"`
	AvgDurationMinutes float64 `json:"avgDurationMinutes"`
	Score              float64 `json:"score"`
}

// TransitionBottleneck ranks one directly-follows pair by the elapsed time
// between the starts of the two activities. The end-to-start gap lives in
// WaitingTimes.
type TransitionBottleneck struct {
	Source        string  `json:"source"`
	Target        string  `json:"target"`
	Frequency     int     `json:"frequency"`
	AvgGapMinutes float64 `json:"avgGapMinutes"`
	Score         float64 `json:"score"`
}

// ActivityBottlenecks scores every activity as frequency × mean duration.
// Frequency counts all rows; the mean only uses rows with a known duration.
// Results are ordered by score descending; ties keep alphabetical order.
func ActivityBottlenecks(log eventlog.EventLog) []ActivityBottleneck {
	freq := make(map[string]int)
	durations := make(map[string][]float64)
	for _, r := range log {
		freq[r.Activity]++
		if r.Duration != nil {
			durations[r.Activity] = append(durations[r.Activity], *r.Duration)
		}
	}

	out := make([]ActivityBottleneck, 0, len(freq))
	for activity, n := range freq {
		avg := CalculateMean(durations[activity])
		out = append(out, ActivityBottleneck{
			Activity:           activity,
			Frequency:          n,
			AvgDurationMinutes: avg,
			Score:              float64(n) * avg,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Activity < out[j].Activity })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// TransitionBottlenecks scores every transition as frequency × mean
// start-to-start gap. Gaps are non-negative because each case is sorted by
// start time before pairs are formed.
func TransitionBottlenecks(log eventlog.EventLog) []TransitionBottleneck {
	type key struct{ source, target string }
	gaps := make(map[key][]float64)

	for _, c := range eventlog.Cases(log) {
		for i := 0; i+1 < len(c.Rows); i++ {
			cur, next := c.Rows[i], c.Rows[i+1]
			k := key{source: cur.Activity, target: next.Activity}
			gaps[k] = append(gaps[k], next.Start.Sub(cur.Start).Minutes())
		}
	}

	out := make([]TransitionBottleneck, 0, len(gaps))
	for k, values := range gaps {
		avg := CalculateMean(values)
		out = append(out, TransitionBottleneck{
			Source:        k.source,
			Target:        k.target,
			Frequency:     len(values),
			AvgGapMinutes: avg,
			Score:         float64(len(values)) * avg,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
