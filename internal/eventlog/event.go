package eventlog

import (
	"sort"
	"time"
)

// EventRow represents a single executed activity within a case.
// It is the canonical unit every analytical component consumes.
type EventRow struct {
	// CaseID identifies the process instance this event belongs to.
	CaseID string `json:"caseId"`
	// Activity is the event label (e.g., "Approve Invoice").
	Activity string `json:"activity"`
	// Start is the moment the activity began.
	Start time.Time `json:"start"`
	// End is the moment the activity finished. Nil when unknown.
	End *time.Time `json:"end,omitempty"`
	// Duration is the activity duration in minutes, derived from Start and End
	// at normalization time. Nil when End is missing, unparseable, or the span
	// is negative; missing is never clamped to zero.
	Duration *float64 `json:"durationMinutes,omitempty"`

	// Optional organisational dimensions.
	Team   string `json:"team,omitempty"`
	System string `json:"system,omitempty"`
	User   string `json:"user,omitempty"`
}

// EffectiveEnd returns End when known, otherwise Start.
func (r EventRow) EffectiveEnd() time.Time {
	if r.End != nil {
		return *r.End
	}
	return r.Start
}

// EventLog is a flat collection of event rows. Row order carries no meaning:
// every consumer that needs chronology sorts its own copy.
type EventLog []EventRow

// Copy returns a new slice with the same rows. Transformations in the
// analytical core operate on copies, never on the caller's log.
func (l EventLog) Copy() EventLog {
	out := make(EventLog, len(l))
	copy(out, l)
	return out
}

// SortedCopy returns a copy ordered by (CaseID, Start, Activity). The third
// key keeps ordering deterministic when two events of a case share a start.
func (l EventLog) SortedCopy() EventLog {
	out := l.Copy()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CaseID != out[j].CaseID {
			return out[i].CaseID < out[j].CaseID
		}
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].Activity < out[j].Activity
	})
	return out
}

// CaseIDs returns the distinct case ids in the log, sorted.
func (l EventLog) CaseIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range l {
		if !seen[r.CaseID] {
			seen[r.CaseID] = true
			ids = append(ids, r.CaseID)
		}
	}
	sort.Strings(ids)
	return ids
}
