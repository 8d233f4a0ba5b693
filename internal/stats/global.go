package stats

import (
	"sort"
	"strings"
	"time"

	"flowmine/internal/eventlog"
)

// Overview is the dataset-level snapshot shown before any drill-down.
type Overview struct {
	Rows                      int       `json:"rows"`
	Cases                     int       `json:"cases"`
	Activities                int       `json:"activities"`
	Variants                  int       `json:"variants"`
	Teams                     int       `json:"teams"`
	Systems                   int       `json:"systems"`
	Users                     int       `json:"users"`
	FirstEvent                time.Time `json:"firstEvent"`
	LastEvent                 time.Time `json:"lastEvent"`
	MeanCaseDurationMinutes   float64   `json:"meanCaseDurationMinutes"`
	MedianCaseDurationMinutes float64   `json:"medianCaseDurationMinutes"`
}

// ActivityFrequency counts occurrences of one activity across the log.
type ActivityFrequency struct {
	Activity string `json:"activity"`
	Count    int    `json:"count"`
}

// DailyCount holds the number of events starting on one calendar day.
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// ComputeOverview summarizes the whole dataset. An empty log yields zero
// values throughout.
func ComputeOverview(log eventlog.EventLog) Overview {
	o := Overview{Rows: len(log)}
	if len(log) == 0 {
		return o
	}

	activities := make(map[string]struct{})
	teams := make(map[string]struct{})
	systems := make(map[string]struct{})
	users := make(map[string]struct{})
	for _, r := range log {
		activities[r.Activity] = struct{}{}
		if r.Team != "" {
			teams[r.Team] = struct{}{}
		}
		if r.System != "" {
			systems[r.System] = struct{}{}
		}
		if r.User != "" {
			users[r.User] = struct{}{}
		}
	}

	cases := eventlog.Cases(log)
	variants := make(map[string]struct{}, len(cases))
	durations := make([]float64, 0, len(cases))
	first, last := cases[0].Start, cases[0].End
	for _, c := range cases {
		variants[strings.Join(c.Trace, "\x1f")] = struct{}{}
		durations = append(durations, c.DurationMinutes)
		if c.Start.Before(first) {
			first = c.Start
		}
		if c.End.After(last) {
			last = c.End
		}
	}

	o.Cases = len(cases)
	o.Activities = len(activities)
	o.Variants = len(variants)
	o.Teams = len(teams)
	o.Systems = len(systems)
	o.Users = len(users)
	o.FirstEvent = first
	o.LastEvent = last
	o.MeanCaseDurationMinutes = CalculateMean(durations)
	o.MedianCaseDurationMinutes = CalculateMedian(durations)
	return o
}

// ActivityFrequencies counts rows per activity, ordered by count descending
// with alphabetical ties.
func ActivityFrequencies(log eventlog.EventLog) []ActivityFrequency {
	counts := make(map[string]int)
	for _, r := range log {
		counts[r.Activity]++
	}

	out := make([]ActivityFrequency, 0, len(counts))
	for activity, n := range counts {
		out = append(out, ActivityFrequency{Activity: activity, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Activity < out[j].Activity })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// DailyVolume counts events by the calendar day they start on, in date order.
// Days without events are absent rather than zero-filled.
func DailyVolume(log eventlog.EventLog) []DailyCount {
	counts := make(map[string]int)
	for _, r := range log {
		counts[r.Start.Format("2006-01-02")]++
	}

	out := make([]DailyCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DailyCount{Day: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}
