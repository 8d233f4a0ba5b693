package stats

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

func rowNoDuration(caseID, activity string, startMin int) eventlog.EventRow {
	return eventlog.EventRow{CaseID: caseID, Activity: activity, Start: at(startMin)}
}

// Case1: A(0-10) -> B(10-20) -> C(20-30); Case2: A(0-5) -> C(5-15).
func twoCaseLog() eventlog.EventLog {
	return eventlog.EventLog{
		row("C1", "A", 0, 10),
		row("C1", "B", 10, 10),
		row("C1", "C", 20, 10),
		row("C2", "A", 0, 5),
		row("C2", "C", 5, 10),
	}
}

func TestActivityBottlenecksScoring(t *testing.T) {
	got := ActivityBottlenecks(twoCaseLog())
	want := []ActivityBottleneck{
		{Activity: "C", Frequency: 2, AvgDurationMinutes: 10, Score: 20},
		{Activity: "A", Frequency: 2, AvgDurationMinutes: 7.5, Score: 15},
		{Activity: "B", Frequency: 1, AvgDurationMinutes: 10, Score: 10},
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

func TestActivityBottlenecksFrequencyCountsAllRows(t *testing.T) {
	log := eventlog.EventLog{
		row("C1", "A", 0, 10),
		row("C2", "A", 0, 10),
		rowNoDuration("C3", "A", 0),
	}

	got := ActivityBottlenecks(log)
	if len(got) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(got))
	}
	if got[0].Frequency != 3 {
		t.Errorf("frequency = %d, want 3 (rows without duration still count)", got[0].Frequency)
	}
	if got[0].AvgDurationMinutes != 10 {
		t.Errorf("avg = %v, want 10 (mean over known durations only)", got[0].AvgDurationMinutes)
	}
	if got[0].Score != 30 {
		t.Errorf("score = %v, want 30", got[0].Score)
	}
}

func TestTransitionBottlenecksUseStartToStartGap(t *testing.T) {
	// A runs 0-10, B starts at 30. The bottleneck gap is start-to-start (30),
	// not the idle time after A ends (20).
	log := eventlog.EventLog{
		row("C1", "A", 0, 10),
		row("C1", "B", 30, 5),
	}

	got := TransitionBottlenecks(log)
	if len(got) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(got))
	}
	if got[0].AvgGapMinutes != 30 {
		t.Errorf("gap = %v, want 30 (start-to-start)", got[0].AvgGapMinutes)
	}

	waits := WaitingTimes(log)
	if len(waits) != 1 {
		t.Fatalf("expected 1 waiting pair, got %d", len(waits))
	}
	if waits[0].MeanMinutes != 20 {
		t.Errorf("waiting = %v, want 20 (end-to-start)", waits[0].MeanMinutes)
	}
}

func TestTransitionBottlenecksRanking(t *testing.T) {
	got := TransitionBottlenecks(twoCaseLog())
	want := []TransitionBottleneck{
		{Source: "A", Target: "B", Frequency: 1, AvgGapMinutes: 10, Score: 10},
		{Source: "B", Target: "C", Frequency: 1, AvgGapMinutes: 10, Score: 10},
		{Source: "A", Target: "C", Frequency: 1, AvgGapMinutes: 5, Score: 5},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d transitions, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBottlenecksSingleEventCase(t *testing.T) {
	log := eventlog.EventLog{rowNoDuration("C1", "A", 0)}

	if got := TransitionBottlenecks(log); len(got) != 0 {
		t.Errorf("expected no transitions for a single-event case, got %d", len(got))
	}

	activities := ActivityBottlenecks(log)
	if len(activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(activities))
	}
	if activities[0].Score != 0 {
		t.Errorf("score = %v, want 0 when no durations are known", activities[0].Score)
	}
}

func TestBottlenecksEmptyLog(t *testing.T) {
	if got := ActivityBottlenecks(nil); len(got) != 0 {
		t.Errorf("expected empty activity table, got %d rows", len(got))
	}
	if got := TransitionBottlenecks(nil); len(got) != 0 {
		t.Errorf("expected empty transition table, got %d rows", len(got))
	}
}
