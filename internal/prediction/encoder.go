// Package prediction trains and serves the forecasting models: a bagged
// decision-tree classifier for the next activity, a gradient-boosted
// regressor for remaining case time, and a Markov routing chain. Models are
// trained on case-disjoint partitions so no case contributes prefixes to
// both training and evaluation.
package prediction

import "sort"

// LabelEncoder maps activity labels to integer codes assigned in sorted
// label order. Labels unseen at fit time encode to 0 instead of failing,
// so inference over a new activity degrades rather than errors.
type LabelEncoder struct {
	labels []string
	codes  map[string]int
}

// FitLabels builds an encoder over the distinct labels in the input.
func FitLabels(labels []string) *LabelEncoder {
	distinct := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		distinct[l] = struct{}{}
	}

	sorted := make([]string, 0, len(distinct))
	for l := range distinct {
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)

	codes := make(map[string]int, len(sorted))
	for i, l := range sorted {
		codes[l] = i
	}
	return &LabelEncoder{labels: sorted, codes: codes}
}

// Encode returns the code for label, or 0 when the label was not seen at
// fit time.
func (e *LabelEncoder) Encode(label string) int {
	if code, ok := e.codes[label]; ok {
		return code
	}
	return 0
}

// Decode returns the label for code, or the empty string for codes outside
// the fitted range.
func (e *LabelEncoder) Decode(code int) string {
	if code < 0 || code >= len(e.labels) {
		return ""
	}
	return e.labels[code]
}

// Len reports the number of distinct fitted labels.
func (e *LabelEncoder) Len() int { return len(e.labels) }
