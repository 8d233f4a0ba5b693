package stats

import (
	"testing"

	"flowmine/internal/eventlog"
)

func TestComputeOverview(t *testing.T) {
	log := twoCaseLog()
	log[0].Team = "Sales"
	log[1].Team = "Sales"
	log[3].Team = "Support"
	log[0].System = "CRM"
	log[0].User = "ada"
	log[4].User = "grace"

	got := ComputeOverview(log)
	if got.Rows != 5 || got.Cases != 2 || got.Activities != 3 {
		t.Errorf("rows/cases/activities = %d/%d/%d, want 5/2/3", got.Rows, got.Cases, got.Activities)
	}
	if got.Variants != 2 {
		t.Errorf("variants = %d, want 2 ([A B C] and [A C])", got.Variants)
	}
	if got.Teams != 2 || got.Systems != 1 || got.Users != 2 {
		t.Errorf("teams/systems/users = %d/%d/%d, want 2/1/2", got.Teams, got.Systems, got.Users)
	}
	if !got.FirstEvent.Equal(at(0)) || !got.LastEvent.Equal(at(30)) {
		t.Errorf("time span = %v..%v, want %v..%v", got.FirstEvent, got.LastEvent, at(0), at(30))
	}
	if got.MeanCaseDurationMinutes != 22.5 {
		t.Errorf("mean case duration = %v, want 22.5", got.MeanCaseDurationMinutes)
	}
	if got.MedianCaseDurationMinutes != 22.5 {
		t.Errorf("median case duration = %v, want 22.5", got.MedianCaseDurationMinutes)
	}
}

func TestComputeOverviewCountsDistinctVariants(t *testing.T) {
	log := eventlog.EventLog{
		row("C1", "A", 0, 5),
		row("C1", "B", 10, 5),
		row("C2", "A", 0, 5),
		row("C2", "B", 10, 5),
		row("C3", "B", 0, 5),
	}

	got := ComputeOverview(log)
	if got.Variants != 2 {
		t.Errorf("variants = %d, want 2 (identical traces collapse)", got.Variants)
	}
}

func TestComputeOverviewEmptyLog(t *testing.T) {
	got := ComputeOverview(nil)
	if got.Rows != 0 || got.Cases != 0 || got.Variants != 0 {
		t.Errorf("expected zero overview, got %+v", got)
	}
	if !got.FirstEvent.IsZero() || !got.LastEvent.IsZero() {
		t.Errorf("expected zero time span, got %v..%v", got.FirstEvent, got.LastEvent)
	}
}

func TestActivityFrequenciesOrdering(t *testing.T) {
	log := eventlog.EventLog{
		row("C1", "Beta", 0, 5),
		row("C1", "Alpha", 10, 5),
		row("C2", "Beta", 0, 5),
		row("C2", "Alpha", 10, 5),
		row("C3", "Gamma", 0, 5),
	}

	got := ActivityFrequencies(log)
	want := []ActivityFrequency{
		{Activity: "Alpha", Count: 2},
		{Activity: "Beta", Count: 2},
		{Activity: "Gamma", Count: 1},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d activities, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDailyVolume(t *testing.T) {
	log := eventlog.EventLog{
		row("C1", "A", 0, 5),
		row("C1", "B", 60, 5),
		row("C2", "A", 24*60, 5),
	}

	got := DailyVolume(log)
	want := []DailyCount{
		{Day: "2024-03-01", Count: 2},
		{Day: "2024-03-02", Count: 1},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("day %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
