// Package dfg builds and filters directly-follows graphs: the multiset of
// ordered activity-pair transitions observed inside cases.
package dfg

import (
	"fmt"
	"strings"

	"flowmine/internal/eventlog"
)

// Column selects the abstraction label used for graph nodes. The default is
// the activity label; organisational columns give a handover-style view.
type Column string

const (
	ColumnActivity Column = "activity"
	ColumnTeam     Column = "team"
	ColumnSystem   Column = "system"
	ColumnUser     Column = "user"
)

// Value extracts the abstraction label from a row. Unknown columns fall back
// to the activity label.
func (c Column) Value(r eventlog.EventRow) string {
	switch c {
	case ColumnTeam:
		return r.Team
	case ColumnSystem:
		return r.System
	case ColumnUser:
		return r.User
	default:
		return r.Activity
	}
}

// Transition is one ordered directly-follows pair.
type Transition struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph maps transitions to their observed frequency. A transition is counted
// once per adjacent pair within a case; never across case boundaries.
type Graph map[Transition]int

// Build constructs the graph from the log. Each case's rows are sorted by
// start time and every adjacent pair of the abstraction column emits one
// transition. Rows with an empty abstraction label are skipped, so a
// team-level view does not fabricate transitions through unlabeled rows.
func Build(log eventlog.EventLog, column Column) Graph {
	g := make(Graph)
	for _, c := range eventlog.Cases(log) {
		var labels []string
		for _, r := range c.Rows {
			if v := column.Value(r); v != "" {
				labels = append(labels, v)
			}
		}
		for i := 0; i+1 < len(labels); i++ {
			g[Transition{Source: labels[i], Target: labels[i+1]}]++
		}
	}
	return g
}

// Copy returns an independent copy of the graph.
func (g Graph) Copy() Graph {
	out := make(Graph, len(g))
	for t, n := range g {
		out[t] = n
	}
	return out
}

// TotalTransitions returns the sum of all transition counts. For any log this
// equals the total row count minus the number of non-empty cases.
func (g Graph) TotalTransitions() int {
	total := 0
	for _, n := range g {
		total += n
	}
	return total
}

// FilterByMinFrequency keeps transitions observed at least threshold times.
// Thresholds of 0 or 1 are no-ops since every present transition has count 1+.
func FilterByMinFrequency(g Graph, threshold int) Graph {
	if threshold <= 1 {
		return g.Copy()
	}
	out := make(Graph)
	for t, n := range g {
		if n >= threshold {
			out[t] = n
		}
	}
	return out
}

// FilterByAllowedPaths restricts the graph to an explicit allow-list.
// An empty allow-list means "no filter", not "empty result".
func FilterByAllowedPaths(g Graph, allowed []Transition) Graph {
	if len(allowed) == 0 {
		return g.Copy()
	}
	allowedSet := make(map[Transition]bool, len(allowed))
	for _, t := range allowed {
		allowedSet[t] = true
	}
	out := make(Graph)
	for t, n := range g {
		if allowedSet[t] {
			out[t] = n
		}
	}
	return out
}

// ParsePaths converts "Source|Target" strings into transitions.
func ParsePaths(paths []string) ([]Transition, error) {
	var out []Transition
	for _, p := range paths {
		source, target, ok := strings.Cut(p, "|")
		if !ok {
			return nil, fmt.Errorf("invalid path %q: expected \"Source|Target\"", p)
		}
		out = append(out, Transition{
			Source: strings.TrimSpace(source),
			Target: strings.TrimSpace(target),
		})
	}
	return out, nil
}

// Options bundle the filters applied by BuildFiltered.
type Options struct {
	Column Column
	// TopVariants restricts the log to cases matching the k most frequent
	// trace variants before the graph is built. 0 disables the restriction.
	TopVariants int
	// MinFrequency drops transitions below the threshold (0/1 = keep all).
	MinFrequency int
	// AllowedPaths restricts to an allow-list (empty = keep all).
	AllowedPaths []Transition
}

// BuildFiltered runs the full pipeline: variant restriction first, then graph
// construction, then frequency thresholding, then the path allow-list.
func BuildFiltered(log eventlog.EventLog, opts Options) Graph {
	working := log
	if opts.TopVariants > 0 {
		keep := make(map[string]bool)
		for _, id := range TopKVariantCaseIDs(log, opts.Column, opts.TopVariants) {
			keep[id] = true
		}
		restricted := make(eventlog.EventLog, 0, len(log))
		for _, r := range log {
			if keep[r.CaseID] {
				restricted = append(restricted, r)
			}
		}
		working = restricted
	}

	g := Build(working, opts.Column)
	g = FilterByMinFrequency(g, opts.MinFrequency)
	return FilterByAllowedPaths(g, opts.AllowedPaths)
}
