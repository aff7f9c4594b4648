package task_test

import (
	"testing"
	"time"

	"wintask/internal/task"
)

func TestNextRunsDaily(t *testing.T) {
	trig, err := task.NewTrigger(task.FreqDaily, "12:00", nil)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	runs := trig.NextRuns(now, 3)
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	want := []time.Time{
		time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
	}
	for i := range want {
		if !runs[i].Equal(want[i]) {
			t.Errorf("run[%d] = %s, want %s", i, runs[i], want[i])
		}
	}
}

func TestNextRunsDailyKeepsSeconds(t *testing.T) {
	trig, err := task.NewTrigger(task.FreqDaily, "07:00:30", nil)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	runs := trig.NextRuns(now, 1)
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].Second() != 30 {
		t.Errorf("run second = %d, want 30", runs[0].Second())
	}
}

func TestNextRunsWeekly(t *testing.T) {
	trig, err := task.NewTrigger(task.FreqWeekly, "07:00", []string{"Monday", "Friday"})
	if err != nil {
		t.Fatal(err)
	}
	// A Wednesday.
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	runs := trig.NextRuns(now, 2)
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].Weekday() != time.Friday {
		t.Errorf("first run on %s, want Friday", runs[0].Weekday())
	}
	if !runs[0].Equal(time.Date(2026, 3, 6, 7, 0, 0, 0, time.UTC)) {
		t.Errorf("first run = %s", runs[0])
	}
	if runs[1].Weekday() != time.Monday {
		t.Errorf("second run on %s, want Monday", runs[1].Weekday())
	}
}

func TestNextRunsOnce(t *testing.T) {
	trig, err := task.NewTrigger(task.FreqOnce, "09:00", []string{"2026-03-10"})
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	runs := trig.NextRuns(now, 5)
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want exactly 1", len(runs))
	}
	if !runs[0].Equal(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("run = %s", runs[0])
	}

	// Already fired: nothing upcoming.
	past := time.Date(2026, 3, 10, 9, 0, 1, 0, time.UTC)
	if runs := trig.NextRuns(past, 5); len(runs) != 0 {
		t.Errorf("expected no runs after the fire time, got %v", runs)
	}
}

func TestNextRunsZeroTrigger(t *testing.T) {
	var trig task.Trigger
	if runs := trig.NextRuns(time.Now(), 3); runs != nil {
		t.Errorf("zero trigger returned %v", runs)
	}
}
