package engine

import (
	"reflect"
	"testing"

	"flowmine/internal/eventlog"
	"flowmine/internal/stats"
)

func normalize(t *testing.T, records [][]string) eventlog.EventLog {
	t.Helper()
	rows, err := eventlog.Normalize(Header, records, eventlog.DefaultOptions())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(rows) != len(records) {
		t.Fatalf("normalized %d of %d generated rows", len(rows), len(records))
	}
	return rows
}

func TestGenerateSteady(t *testing.T) {
	records := Generate(GeneratorConfig{Scenario: "steady", Count: 25, Seed: 1})
	rows := normalize(t, records)

	cases := eventlog.Cases(rows)
	if len(cases) != 25 {
		t.Fatalf("generated %d cases, want 25", len(cases))
	}
	for _, c := range cases {
		if len(c.Trace) != 6 {
			t.Errorf("case %s has %d events, want 6", c.ID, len(c.Trace))
		}
		if c.Trace[0] != "Receive Order" || c.Trace[len(c.Trace)-1] != "Send Invoice" {
			t.Errorf("case %s runs %v, want Receive Order .. Send Invoice", c.ID, c.Trace)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(GeneratorConfig{Scenario: "rework", Count: 10, Seed: 7})
	b := Generate(GeneratorConfig{Scenario: "rework", Count: 10, Seed: 7})
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should reproduce the same records")
	}
}

func TestGenerateReworkLoops(t *testing.T) {
	records := Generate(GeneratorConfig{Scenario: "rework", Count: 40, Seed: 3})
	rows := normalize(t, records)

	sawRework := false
	for _, c := range eventlog.Cases(rows) {
		checks, picks := 0, 0
		for _, a := range c.Trace {
			switch a {
			case "Quality Check":
				checks++
			case "Pick Items":
				picks++
			}
		}
		if checks == 0 {
			t.Errorf("case %s skipped Quality Check: %v", c.ID, c.Trace)
		}
		if picks > 1 {
			sawRework = true
			if picks > 3 {
				t.Errorf("case %s picked %d times, rework should stop after two loops", c.ID, picks)
			}
		}
	}
	if !sawRework {
		t.Error("no case was reworked at this seed")
	}
}

func TestGenerateCongestedQueuesAtPacking(t *testing.T) {
	packWait := func(scenario string) float64 {
		records := Generate(GeneratorConfig{Scenario: scenario, Count: 25, Seed: 5})
		for _, w := range stats.WaitingTimes(normalize(t, records)) {
			if w.Source == "Pick Items" && w.Target == "Pack Order" {
				return w.MeanMinutes
			}
		}
		t.Fatalf("no Pick Items -> Pack Order wait in scenario %s", scenario)
		return 0
	}

	steady := packWait("steady")
	congested := packWait("congested")
	if congested < 3*steady {
		t.Errorf("congested pack wait %.1f should dwarf steady %.1f", congested, steady)
	}
}
