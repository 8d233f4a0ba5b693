package stats

import (
	"sort"

	"flowmine/internal/eventlog"
)

// ActivitySummary aggregates duration statistics for one activity.
type ActivitySummary struct {
	Activity       string  `json:"activity"`
	Frequency      int     `json:"frequency"`
	MeanMinutes    float64 `json:"meanMinutes"`
	MedianMinutes  float64 `json:"medianMinutes"`
	MinMinutes     float64 `json:"minMinutes"`
	MaxMinutes     float64 `json:"maxMinutes"`
	P90Minutes     float64 `json:"p90Minutes"`
	TotalMinutes   float64 `json:"totalMinutes"`
	KnownDurations int     `json:"knownDurations"`
}

// WaitingTime aggregates the idle gap between an activity ENDING and its
// successor STARTING. Pairs where the first activity has no end timestamp
// are skipped. Negative gaps (overlapping work) are kept as observed.
type WaitingTime struct {
	Source        string  `json:"source"`
	Target        string  `json:"target"`
	Frequency     int     `json:"frequency"`
	MeanMinutes   float64 `json:"meanMinutes"`
	MedianMinutes float64 `json:"medianMinutes"`
	MaxMinutes    float64 `json:"maxMinutes"`
	TotalMinutes  float64 `json:"totalMinutes"`
}

// ActivitySummaries computes per-activity duration statistics, ordered by
// total time spent descending so the most expensive activities lead.
func ActivitySummaries(log eventlog.EventLog) []ActivitySummary {
	freq := make(map[string]int)
	durations := make(map[string][]float64)
	for _, r := range log {
		freq[r.Activity]++
		if r.Duration != nil {
			durations[r.Activity] = append(durations[r.Activity], *r.Duration)
		}
	}

	out := make([]ActivitySummary, 0, len(freq))
	for activity, n := range freq {
		d := durations[activity]
		out = append(out, ActivitySummary{
			Activity:       activity,
			Frequency:      n,
			MeanMinutes:    CalculateMean(d),
			MedianMinutes:  CalculateMedian(d),
			MinMinutes:     CalculateMin(d),
			MaxMinutes:     CalculateMax(d),
			P90Minutes:     CalculatePercentile(d, 0.9),
			TotalMinutes:   CalculateSum(d),
			KnownDurations: len(d),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Activity < out[j].Activity })
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalMinutes > out[j].TotalMinutes })
	return out
}

// WaitingTimes computes end-to-start gaps for every directly-follows pair,
// ordered by mean gap descending.
func WaitingTimes(log eventlog.EventLog) []WaitingTime {
	type key struct{ source, target string }
	gaps := make(map[key][]float64)

	for _, c := range eventlog.Cases(log) {
		for i := 0; i+1 < len(c.Rows); i++ {
			cur, next := c.Rows[i], c.Rows[i+1]
			if cur.End == nil {
				continue
			}
			k := key{source: cur.Activity, target: next.Activity}
			gaps[k] = append(gaps[k], next.Start.Sub(*cur.End).Minutes())
		}
	}

	out := make([]WaitingTime, 0, len(gaps))
	for k, values := range gaps {
		out = append(out, WaitingTime{
			Source:        k.source,
			Target:        k.target,
			Frequency:     len(values),
			MeanMinutes:   CalculateMean(values),
			MedianMinutes: CalculateMedian(values),
			MaxMinutes:    CalculateMax(values),
			TotalMinutes:  CalculateSum(values),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].MeanMinutes > out[j].MeanMinutes })
	return out
}
