package dfg

import (
	"sort"

	"flowmine/internal/eventlog"
)

// Variant groups the cases that share one exact trace.
type Variant struct {
	Trace   []string `json:"trace"`
	Count   int      `json:"count"`
	CaseIDs []string `json:"caseIds"`
}

// Variants returns the distinct traces of the log, most frequent first.
// Ties are ordered by lexicographic trace comparison so the result is stable
// across runs. Case ids within a variant are sorted.
func Variants(log eventlog.EventLog, column Column) []Variant {
	byKey := make(map[string]*Variant)
	for _, c := range eventlog.Cases(log) {
		var labels []string
		for _, r := range c.Rows {
			if v := column.Value(r); v != "" {
				labels = append(labels, v)
			}
		}
		if len(labels) == 0 {
			continue
		}
		key := traceKey(labels)
		v, ok := byKey[key]
		if !ok {
			v = &Variant{Trace: labels}
			byKey[key] = v
		}
		v.Count++
		v.CaseIDs = append(v.CaseIDs, c.ID)
	}

	out := make([]Variant, 0, len(byKey))
	for _, v := range byKey {
		sort.Strings(v.CaseIDs)
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return lessTrace(out[i].Trace, out[j].Trace)
	})
	return out
}

// TopKVariantCaseIDs returns the ids of every case whose trace exactly
// matches one of the k most frequent variants. Exact sequence equality; no
// subsequence or similarity matching.
func TopKVariantCaseIDs(log eventlog.EventLog, column Column, k int) []string {
	if k <= 0 {
		return nil
	}
	variants := Variants(log, column)
	if k > len(variants) {
		k = len(variants)
	}

	var ids []string
	for _, v := range variants[:k] {
		ids = append(ids, v.CaseIDs...)
	}
	sort.Strings(ids)
	return ids
}

// traceKey flattens a trace into a map key. The separator is a control
// character so realistic activity labels cannot collide.
func traceKey(trace []string) string {
	key := ""
	for i, t := range trace {
		if i > 0 {
			key += "\x1f"
		}
		key += t
	}
	return key
}

func lessTrace(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
