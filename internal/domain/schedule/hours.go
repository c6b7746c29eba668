package schedule

import "time"

// defaultWorkHours is the conservative fallback for unrecognized schedule kinds.
const defaultWorkHours = 8.0

// ComputeDayHours returns the expected working hours for a schedule on a
// calendar date. shiftName picks a shift on shift-kind schedules; empty
// string falls back to the schedule's first shift.
func ComputeDayHours(ws WorkSchedule, shiftName string, date time.Time) DayHours {
	if !isWorkDay(ws.WorkDays, date.Weekday()) {
		return DayHours{}
	}

	switch ws.Kind {
	case KindFixed:
		if ws.StartTime == nil || ws.EndTime == nil {
			return DayHours{IsWorkDay: true, WorkHours: defaultWorkHours}
		}
		start := atTimeOfDay(date, *ws.StartTime)
		end := atTimeOfDay(date, *ws.EndTime)
		breakMins := 0
		if ws.BreakMinutes != nil {
			breakMins = *ws.BreakMinutes
		}
		hours := end.Sub(start).Hours() - float64(breakMins)/60.0
		return DayHours{
			IsWorkDay:    true,
			WorkHours:    hours,
			StartTime:    &start,
			EndTime:      &end,
			BreakMinutes: breakMins,
		}

	case KindShift:
		shift, ok := pickShift(ws.Shifts, shiftName)
		if !ok {
			return DayHours{IsWorkDay: true, WorkHours: defaultWorkHours}
		}
		start := atTimeOfDay(date, shift.StartTime)
		end := atTimeOfDay(date, shift.EndTime)
		// Overnight shift: the end rolls to the next calendar day.
		if end.Before(start) {
			end = end.AddDate(0, 0, 1)
		}
		hours := end.Sub(start).Hours() - float64(shift.BreakMinutes)/60.0
		return DayHours{
			IsWorkDay:    true,
			WorkHours:    hours,
			StartTime:    &start,
			EndTime:      &end,
			BreakMinutes: shift.BreakMinutes,
		}

	case KindFlexible:
		hours := defaultWorkHours
		if ws.MinWorkHours != nil {
			hours = *ws.MinWorkHours
		}
		// Start/end are employee-determined; only the minimum is expected.
		return DayHours{IsWorkDay: true, WorkHours: hours}

	default:
		return DayHours{IsWorkDay: true, WorkHours: defaultWorkHours}
	}
}

func isWorkDay(workDays []int, weekday time.Weekday) bool {
	for _, d := range workDays {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// pickShift returns the named shift, or the first shift when name is empty
// or unknown.
func pickShift(shifts []Shift, name string) (Shift, bool) {
	if len(shifts) == 0 {
		return Shift{}, false
	}
	if name != "" {
		for _, s := range shifts {
			if s.Name == name {
				return s, true
			}
		}
	}
	return shifts[0], true
}

// atTimeOfDay combines a calendar date with the hour/minute of a time-of-day
// value, in the date's location.
func atTimeOfDay(date, tod time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour(), tod.Minute(), 0, 0, date.Location())
}
