package stats

import (
	"sort"
	"time"

	"flowmine/internal/eventlog"
)

// CaseFilter selects whole cases. Nil pointer fields are not applied.
// Attribute fields match a case when ANY of its rows carries the value.
type CaseFilter struct {
	MinDurationMinutes *float64   `json:"minDurationMinutes,omitempty"`
	MaxDurationMinutes *float64   `json:"maxDurationMinutes,omitempty"`
	MinEvents          *int       `json:"minEvents,omitempty"`
	MaxEvents          *int       `json:"maxEvents,omitempty"`
	From               *time.Time `json:"from,omitempty"`
	To                 *time.Time `json:"to,omitempty"`
	Team               string     `json:"team,omitempty"`
	System             string     `json:"system,omitempty"`
	User               string     `json:"user,omitempty"`
}

// CaseSummaries returns one eventlog.Case per case id, ordered by cycle time
// descending so the slowest cases lead. Ties keep case-id order.
func CaseSummaries(log eventlog.EventLog) []eventlog.Case {
	cases := eventlog.Cases(log)
	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].DurationMinutes > cases[j].DurationMinutes
	})
	return cases
}

// FilterCases returns a new event log containing only the rows of cases that
// satisfy every set field of the filter. Cases are kept or dropped as a
// whole; rows are never filtered individually.
func FilterCases(log eventlog.EventLog, f CaseFilter) eventlog.EventLog {
	out := make(eventlog.EventLog, 0, len(log))
	for _, c := range eventlog.Cases(log) {
		if !matchCase(c, f) {
			continue
		}
		out = append(out, c.Rows...)
	}
	return out
}

func matchCase(c eventlog.Case, f CaseFilter) bool {
	if f.MinDurationMinutes != nil && c.DurationMinutes < *f.MinDurationMinutes {
		return false
	}
	if f.MaxDurationMinutes != nil && c.DurationMinutes > *f.MaxDurationMinutes {
		return false
	}
	if f.MinEvents != nil && c.EventCount < *f.MinEvents {
		return false
	}
	if f.MaxEvents != nil && c.EventCount > *f.MaxEvents {
		return false
	}
	if f.From != nil && c.Start.Before(*f.From) {
		return false
	}
	if f.To != nil && c.Start.After(*f.To) {
		return false
	}
	if f.Team != "" && !anyRow(c, func(r eventlog.EventRow) bool { return r.Team == f.Team }) {
		return false
	}
	if f.System != "" && !anyRow(c, func(r eventlog.EventRow) bool { return r.System == f.System }) {
		return false
	}
	if f.User != "" && !anyRow(c, func(r eventlog.EventRow) bool { return r.User == f.User }) {
		return false
	}
	return true
}

func anyRow(c eventlog.Case, pred func(eventlog.EventRow) bool) bool {
	for _, r := range c.Rows {
		if pred(r) {
			return true
		}
	}
	return false
}
