package eventlog

import (
	"sort"
	"time"
)

// Case is the per-case projection of an event log: one end-to-end process
// instance with its chronologically sorted rows.
type Case struct {
	ID string `json:"id"`
	// Rows are the case's events sorted by (Start, Activity).
	Rows []EventRow `json:"rows"`
	// Trace is the ordered sequence of activity labels.
	Trace []string `json:"trace"`
	// Start is the earliest row start, End the latest known end (falling back
	// to the row start when an end is missing).
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// DurationMinutes is End minus Start.
	DurationMinutes float64 `json:"durationMinutes"`
	EventCount      int     `json:"eventCount"`
}

// Cases groups the log by case id and returns one Case per id, sorted by id.
// Transitions, prefixes and traces are only ever formed inside one Case.
func Cases(l EventLog) []Case {
	groups := make(map[string][]EventRow)
	for _, r := range l {
		groups[r.CaseID] = append(groups[r.CaseID], r)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cases := make([]Case, 0, len(ids))
	for _, id := range ids {
		cases = append(cases, buildCase(id, groups[id]))
	}
	return cases
}

// CaseByID returns the projection for a single case id.
func CaseByID(l EventLog, id string) (Case, bool) {
	var rows []EventRow
	for _, r := range l {
		if r.CaseID == id {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return Case{}, false
	}
	return buildCase(id, rows), true
}

// Traces returns the ordered activity sequence for every case id.
func Traces(l EventLog) map[string][]string {
	groups := make(map[string][]EventRow)
	for _, r := range l {
		groups[r.CaseID] = append(groups[r.CaseID], r)
	}

	traces := make(map[string][]string, len(groups))
	for id, rows := range groups {
		c := buildCase(id, rows)
		traces[id] = c.Trace
	}
	return traces
}

func buildCase(id string, rows []EventRow) Case {
	sorted := make([]EventRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].Activity < sorted[j].Activity
	})

	c := Case{
		ID:         id,
		Rows:       sorted,
		EventCount: len(sorted),
		Start:      sorted[0].Start,
		End:        sorted[0].EffectiveEnd(),
	}
	for _, r := range sorted {
		c.Trace = append(c.Trace, r.Activity)
		if end := r.EffectiveEnd(); end.After(c.End) {
			c.End = end
		}
	}
	c.DurationMinutes = c.End.Sub(c.Start).Minutes()
	return c
}
