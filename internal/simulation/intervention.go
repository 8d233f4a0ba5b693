package simulation

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind selects how an intervention transforms a duration distribution.
type Kind string

const (
	KindDeterministic Kind = "DETERMINISTIC"
	KindSpeedup       Kind = "SPEEDUP"
	KindSlowdown      Kind = "SLOWDOWN"
)

// Intervention is a hypothetical change to one activity's durations.
// Value holds "HH:MM:SS" for DETERMINISTIC and a fraction in [0,1] for
// SPEEDUP and SLOWDOWN.
type Intervention struct {
	Activity string `json:"activity"`
	Kind     Kind   `json:"kind"`
	Value    string `json:"value"`
}

// InvalidValueError reports one intervention whose value could not be
// parsed or is out of range. Other interventions stay applicable.
type InvalidValueError struct {
	Activity string
	Value    string
	Reason   string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid intervention value %q for activity %q: %s", e.Value, e.Activity, e.Reason)
}

// ParseClock converts an "HH:MM:SS" string to minutes.
func ParseClock(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected HH:MM:SS, got %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("bad hours in %q: %w", s, err)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("bad minutes in %q: %w", s, err)
	}
	sec, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return 0, fmt.Errorf("bad seconds in %q: %w", s, err)
	}
	return float64(h)*60 + float64(m) + float64(sec)/60, nil
}

// Apply transforms one distribution. DETERMINISTIC replaces every value
// with the fixed duration, keeping the length; SPEEDUP scales everything
// by (1 - rate); SLOWDOWN scales by (1 + rate). An unrecognized kind
// returns the input unchanged. The input slice is never mutated.
func Apply(dist []float64, iv Intervention) ([]float64, error) {
	switch Kind(strings.ToUpper(string(iv.Kind))) {
	case KindDeterministic:
		fixed, err := ParseClock(iv.Value)
		if err != nil {
			return nil, &InvalidValueError{Activity: iv.Activity, Value: iv.Value, Reason: err.Error()}
		}
		out := make([]float64, len(dist))
		for i := range out {
			out[i] = fixed
		}
		return out, nil
	case KindSpeedup:
		rate, err := parseRate(iv)
		if err != nil {
			return nil, err
		}
		return scale(dist, 1-rate), nil
	case KindSlowdown:
		rate, err := parseRate(iv)
		if err != nil {
			return nil, err
		}
		return scale(dist, 1+rate), nil
	default:
		return dist, nil
	}
}

// ApplyAll applies each intervention to its activity's distribution and
// returns the modified set plus the interventions that failed. A failed
// intervention leaves its activity at baseline. Interventions naming an
// activity with no observed durations are ignored.
func ApplyAll(dists Distributions, interventions []Intervention) (Distributions, []error) {
	out := dists.Copy()
	var failed []error
	for _, iv := range interventions {
		dist, ok := out[iv.Activity]
		if !ok {
			continue
		}
		modified, err := Apply(dist, iv)
		if err != nil {
			failed = append(failed, err)
			continue
		}
		out[iv.Activity] = modified
	}
	return out, failed
}

func parseRate(iv Intervention) (float64, error) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(iv.Value), 64)
	if err != nil {
		return 0, &InvalidValueError{Activity: iv.Activity, Value: iv.Value, Reason: "rate is not a number"}
	}
	if rate < 0 || rate > 1 {
		return 0, &InvalidValueError{Activity: iv.Activity, Value: iv.Value, Reason: "rate must be between 0 and 1"}
	}
	return rate, nil
}

func scale(dist []float64, factor float64) []float64 {
	out := make([]float64, len(dist))
	for i, v := range dist {
		out[i] = v * factor
	}
	return out
}
