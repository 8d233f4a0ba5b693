package simulation

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{"ThirtyMinutes", "00:30:00", 30, false},
		{"NinetyMinutes", "01:30:00", 90, false},
		{"ThirtySeconds", "00:00:30", 0.5, false},
		{"TwoHours", "02:00:00", 120, false},
		{"MissingParts", "30", 0, true},
		{"TwoParts", "01:30", 0, true},
		{"NotNumbers", "aa:bb:cc", 0, true},
		{"Empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestApplyDeterministic(t *testing.T) {
	dist := []float64{10, 20, 30, 100}
	got, err := Apply(dist, Intervention{Activity: "A", Kind: KindDeterministic, Value: "00:30:00"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("length changed from 4 to %d", len(got))
	}
	for i, v := range got {
		if v != 30 {
			t.Errorf("got[%d] = %v, want 30", i, v)
		}
	}
	if dist[0] != 10 {
		t.Errorf("input mutated: %v", dist)
	}
}

func TestApplySpeedupExactScaling(t *testing.T) {
	dist := []float64{10, 20, 50}
	got, err := Apply(dist, Intervention{Activity: "A", Kind: KindSpeedup, Value: "0.2"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := []float64{10 * 0.8, 20 * 0.8, 50 * 0.8}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestApplySlowdownExactScaling(t *testing.T) {
	dist := []float64{10, 20}
	got, err := Apply(dist, Intervention{Activity: "A", Kind: KindSlowdown, Value: "0.3"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if got[0] != 10*1.3 || got[1] != 20*1.3 {
		t.Errorf("got = %v, want [13 26]", got)
	}
}

func TestApplyUnknownKindIsNoOp(t *testing.T) {
	dist := []float64{5, 6}
	got, err := Apply(dist, Intervention{Activity: "A", Kind: "TELEPORT", Value: "whatever"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got[0] != 5 || got[1] != 6 {
		t.Errorf("got = %v, want unchanged [5 6]", got)
	}
}

func TestApplyKindIsCaseInsensitive(t *testing.T) {
	got, err := Apply([]float64{10}, Intervention{Activity: "A", Kind: "speedup", Value: "0.5"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got[0] != 5 {
		t.Errorf("got = %v, want [5]", got)
	}
}

func TestApplyInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		iv   Intervention
	}{
		{"RateNotANumber", Intervention{Activity: "A", Kind: KindSpeedup, Value: "lots"}},
		{"RateTooLarge", Intervention{Activity: "A", Kind: KindSpeedup, Value: "1.5"}},
		{"RateNegative", Intervention{Activity: "A", Kind: KindSlowdown, Value: "-0.1"}},
		{"MalformedClock", Intervention{Activity: "A", Kind: KindDeterministic, Value: "30 minutes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply([]float64{10}, tt.iv)
			var ive *InvalidValueError
			if !errors.As(err, &ive) {
				t.Fatalf("err = %v, want *InvalidValueError", err)
			}
			if ive.Activity != "A" {
				t.Errorf("error names activity %q, want A", ive.Activity)
			}
		})
	}
}

func TestApplyAllFailuresAreIsolated(t *testing.T) {
	dists := Distributions{
		"Approve": {10, 20},
		"Ship":    {30, 40},
	}

	modified, failed := ApplyAll(dists, []Intervention{
		{Activity: "Approve", Kind: KindSpeedup, Value: "0.5"},
		{Activity: "Ship", Kind: KindSpeedup, Value: "9.9"},
		{Activity: "Ghost", Kind: KindSpeedup, Value: "0.5"},
	})

	if len(failed) != 1 {
		t.Fatalf("expected 1 failure, got %d: %v", len(failed), failed)
	}
	if modified["Approve"][0] != 5 || modified["Approve"][1] != 10 {
		t.Errorf("Approve = %v, want [5 10]", modified["Approve"])
	}
	if modified["Ship"][0] != 30 || modified["Ship"][1] != 40 {
		t.Errorf("Ship = %v, want baseline [30 40] after its intervention failed", modified["Ship"])
	}
	if dists["Approve"][0] != 10 {
		t.Errorf("baseline mutated: %v", dists["Approve"])
	}
}
