package prediction

import "flowmine/internal/eventlog"

// prefixExample is one next-activity training row: the situation after the
// first prefixLen events of a case, labeled with the event that followed.
type prefixExample struct {
	caseID    string
	last      string
	prefixLen int
	elapsed   float64
	target    string
}

// remainingExample is one remaining-time training row: after prefixLen
// events with elapsed minutes of work done, remaining minutes of work were
// still ahead.
type remainingExample struct {
	caseID    string
	prefixLen int
	elapsed   float64
	remaining float64
}

// nextActivityExamples emits one example per trace position i >= 1: the
// features describe the prefix of the first i events (its last activity and
// the minutes between the case start and that activity starting) and the
// target is the activity at position i. Cases with fewer than two events
// yield nothing.
func nextActivityExamples(cases []eventlog.Case) []prefixExample {
	var out []prefixExample
	for _, c := range cases {
		if len(c.Rows) < 2 {
			continue
		}
		start := c.Rows[0].Start
		for i := 1; i < len(c.Rows); i++ {
			out = append(out, prefixExample{
				caseID:    c.ID,
				last:      c.Rows[i-1].Activity,
				prefixLen: i,
				elapsed:   c.Rows[i-1].Start.Sub(start).Minutes(),
				target:    c.Rows[i].Activity,
			})
		}
	}
	return out
}

// remainingTimeExamples emits one example per non-final trace position. The
// elapsed feature is the running sum of event durations through that
// position; the target is the case's total summed duration minus elapsed,
// clamped at zero. Rows without a known duration contribute zero minutes.
func remainingTimeExamples(cases []eventlog.Case) []remainingExample {
	var out []remainingExample
	for _, c := range cases {
		if len(c.Rows) < 2 {
			continue
		}

		total := 0.0
		for _, r := range c.Rows {
			if r.Duration != nil {
				total += *r.Duration
			}
		}

		elapsed := 0.0
		for i := 0; i+1 < len(c.Rows); i++ {
			if d := c.Rows[i].Duration; d != nil {
				elapsed += *d
			}
			remaining := total - elapsed
			if remaining < 0 {
				remaining = 0
			}
			out = append(out, remainingExample{
				caseID:    c.ID,
				prefixLen: i + 1,
				elapsed:   elapsed,
				remaining: remaining,
			})
		}
	}
	return out
}
