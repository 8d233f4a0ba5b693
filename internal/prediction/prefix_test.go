package prediction

import (
	"testing"
	"time"

	"flowmine/internal/eventlog"
)

func at(min int) time.Time {
	return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(min) * time.Minute)
}

func row(caseID, activity string, startMin int, durMin float64) eventlog.EventRow {
	start := at(startMin)
	end := start.Add(time.Duration(durMin * float64(time.Minute)))
	dur := durMin
	return eventlog.EventRow{CaseID: caseID, Activity: activity, Start: start, End: &end, Duration: &dur}
}

func TestNextActivityExamples(t *testing.T) {
	log := eventlog.EventLog{
		row("C1", "A", 0, 5),
		row("C1", "B", 10, 10),
		row("C1", "C", 30, 15),
	}

	got := nextActivityExamples(eventlog.Cases(log))
	if len(got) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(got))
	}

	first := got[0]
	if first.last != "A" || first.prefixLen != 1 || first.elapsed != 0 || first.target != "B" {
		t.Errorf("first example = %+v", first)
	}

	second := got[1]
	if second.last != "B" || second.prefixLen != 2 || second.elapsed != 10 || second.target != "C" {
		t.Errorf("second example = %+v", second)
	}
}

func TestNextActivityExamplesSkipShortCases(t *testing.T) {
	log := eventlog.EventLog{
		row("Solo", "A", 0, 5),
		row("Pair", "A", 0, 5),
		row("Pair", "B", 10, 5),
	}

	got := nextActivityExamples(eventlog.Cases(log))
	if len(got) != 1 {
		t.Fatalf("expected 1 example (single-event case skipped), got %d", len(got))
	}
	if got[0].caseID != "Pair" {
		t.Errorf("example from case %s, want Pair", got[0].caseID)
	}
}

func TestRemainingTimeExamples(t *testing.T) {
	log := eventlog.EventLog{
		row("C1", "A", 0, 5),
		row("C1", "B", 10, 10),
		row("C1", "C", 30, 15),
	}

	got := remainingTimeExamples(eventlog.Cases(log))
	if len(got) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(got))
	}

	if got[0].prefixLen != 1 || got[0].elapsed != 5 || got[0].remaining != 25 {
		t.Errorf("first example = %+v, want prefix 1 / elapsed 5 / remaining 25", got[0])
	}
	if got[1].prefixLen != 2 || got[1].elapsed != 15 || got[1].remaining != 15 {
		t.Errorf("second example = %+v, want prefix 2 / elapsed 15 / remaining 15", got[1])
	}
}

func TestRemainingTimeExamplesClampAtZero(t *testing.T) {
	bad := row("C1", "B", 10, 5)
	negative := -20.0
	bad.Duration = &negative

	log := eventlog.EventLog{
		row("C1", "A", 0, 10),
		bad,
		row("C1", "C", 20, 5),
	}

	got := remainingTimeExamples(eventlog.Cases(log))
	if len(got) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(got))
	}
	// Total summed duration is -5; after A the raw remaining would be -15.
	if got[0].remaining != 0 {
		t.Errorf("remaining = %v, want clamped 0", got[0].remaining)
	}
}

func TestRemainingTimeExamplesMissingDurations(t *testing.T) {
	noDur := eventlog.EventRow{CaseID: "C1", Activity: "B", Start: at(10)}
	log := eventlog.EventLog{
		row("C1", "A", 0, 10),
		noDur,
		row("C1", "C", 20, 5),
	}

	got := remainingTimeExamples(eventlog.Cases(log))
	if len(got) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(got))
	}
	// B contributes nothing: elapsed stays at 10 for both prefixes.
	if got[0].elapsed != 10 || got[0].remaining != 5 {
		t.Errorf("first = %+v, want elapsed 10 / remaining 5", got[0])
	}
	if got[1].elapsed != 10 || got[1].remaining != 5 {
		t.Errorf("second = %+v, want elapsed 10 / remaining 5", got[1])
	}
}
