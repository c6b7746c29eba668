package schedule

import (
	"testing"
	"time"
)

func tod(hour, minute int) time.Time {
	return time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC)
}

func todPtr(hour, minute int) *time.Time {
	t := tod(hour, minute)
	return &t
}

// 2025-03-17 is a Monday.
var monday = time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)

func TestComputeDayHours_Fixed(t *testing.T) {
	breakMins := 60
	ws := WorkSchedule{
		Kind:         KindFixed,
		WorkDays:     []int{1, 2, 3, 4, 5},
		StartTime:    todPtr(9, 0),
		EndTime:      todPtr(17, 0),
		BreakMinutes: &breakMins,
	}

	got := ComputeDayHours(ws, "", monday)
	if !got.IsWorkDay {
		t.Fatal("expected a work day")
	}
	if got.WorkHours != 7.0 {
		t.Errorf("WorkHours = %v, want 7.0", got.WorkHours)
	}
	if got.StartTime == nil || got.StartTime.Hour() != 9 {
		t.Errorf("StartTime = %v, want 09:00 on the given date", got.StartTime)
	}
	if got.BreakMinutes != 60 {
		t.Errorf("BreakMinutes = %d, want 60", got.BreakMinutes)
	}
}

func TestComputeDayHours_NonWorkDay(t *testing.T) {
	ws := WorkSchedule{
		Kind:      KindFixed,
		WorkDays:  []int{1, 2, 3, 4, 5},
		StartTime: todPtr(9, 0),
		EndTime:   todPtr(17, 0),
	}
	sunday := monday.AddDate(0, 0, -1)

	got := ComputeDayHours(ws, "", sunday)
	if got.IsWorkDay {
		t.Error("Sunday should not be a work day")
	}
	if got.WorkHours != 0 {
		t.Errorf("WorkHours = %v, want 0", got.WorkHours)
	}
}

func TestComputeDayHours_OvernightShift(t *testing.T) {
	ws := WorkSchedule{
		Kind:     KindShift,
		WorkDays: []int{1, 2, 3, 4, 5},
		Shifts: []Shift{
			{Name: "day", StartTime: tod(6, 0), EndTime: tod(14, 0), BreakMinutes: 60},
			{Name: "night", StartTime: tod(22, 0), EndTime: tod(6, 0), BreakMinutes: 30},
		},
	}

	got := ComputeDayHours(ws, "night", monday)
	if got.WorkHours != 7.5 {
		t.Errorf("WorkHours = %v, want 7.5", got.WorkHours)
	}
	if got.EndTime == nil || got.EndTime.Day() != monday.Day()+1 {
		t.Errorf("EndTime = %v, want the next calendar day", got.EndTime)
	}
}

func TestComputeDayHours_ShiftEndEqualsStart(t *testing.T) {
	ws := WorkSchedule{
		Kind:     KindShift,
		WorkDays: []int{1},
		Shifts: []Shift{
			{Name: "odd", StartTime: tod(8, 0), EndTime: tod(8, 0), BreakMinutes: 0},
		},
	}

	// Only end < start rolls to the next day; an equal end is a
	// zero-length shift, not a 24-hour one.
	got := ComputeDayHours(ws, "odd", monday)
	if got.WorkHours != 0 {
		t.Errorf("WorkHours = %v, want 0", got.WorkHours)
	}
	if got.EndTime == nil || got.EndTime.Day() != monday.Day() {
		t.Errorf("EndTime = %v, want the same calendar day", got.EndTime)
	}
}

func TestComputeDayHours_ShiftFallsBackToFirst(t *testing.T) {
	ws := WorkSchedule{
		Kind:     KindShift,
		WorkDays: []int{1},
		Shifts: []Shift{
			{Name: "morning", StartTime: tod(7, 0), EndTime: tod(15, 0), BreakMinutes: 0},
			{Name: "evening", StartTime: tod(15, 0), EndTime: tod(23, 0), BreakMinutes: 0},
		},
	}

	for _, name := range []string{"", "does-not-exist"} {
		got := ComputeDayHours(ws, name, monday)
		if got.WorkHours != 8.0 {
			t.Errorf("shiftName %q: WorkHours = %v, want 8.0 (first shift)", name, got.WorkHours)
		}
		if got.StartTime == nil || got.StartTime.Hour() != 7 {
			t.Errorf("shiftName %q: StartTime = %v, want 07:00", name, got.StartTime)
		}
	}
}

func TestComputeDayHours_Flexible(t *testing.T) {
	minHours := 6.5
	ws := WorkSchedule{
		Kind:         KindFlexible,
		WorkDays:     []int{1, 2, 3, 4, 5},
		MinWorkHours: &minHours,
	}

	got := ComputeDayHours(ws, "", monday)
	if got.WorkHours != 6.5 {
		t.Errorf("WorkHours = %v, want 6.5", got.WorkHours)
	}
	if got.StartTime != nil || got.EndTime != nil {
		t.Error("flexible schedules have no fixed start or end")
	}
}

func TestComputeDayHours_FixedWithoutTimesDefaults(t *testing.T) {
	ws := WorkSchedule{Kind: KindFixed, WorkDays: []int{1}}

	got := ComputeDayHours(ws, "", monday)
	if got.WorkHours != 8.0 {
		t.Errorf("WorkHours = %v, want the 8.0 default", got.WorkHours)
	}
}
