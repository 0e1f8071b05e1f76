package simulation

import "time"

// Epoch is the UTC start of the simulated year. Day index N maps to Epoch + N days.
var Epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Period is the granularity of an event aggregate.
// Keep these values stable; they are persisted and exposed over the API.
type Period string

const (
	PeriodYear  Period = "year"
	PeriodMonth Period = "month"
	PeriodWeek  Period = "week"
	PeriodDay   Period = "day"
)

// Periods lists the granularities in output order.
var Periods = []Period{PeriodYear, PeriodMonth, PeriodWeek, PeriodDay}

func (p Period) Valid() bool {
	switch p {
	case PeriodYear, PeriodMonth, PeriodWeek, PeriodDay:
		return true
	}
	return false
}

// rank orders periods year < month < week < day.
func (p Period) rank() int {
	for i, q := range Periods {
		if p == q {
			return i
		}
	}
	return len(Periods)
}

// DayStart returns UTC midnight of the given simulated day.
func DayStart(base time.Time, dayIndex int) time.Time {
	y, m, d := base.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayIndex)
}

// WeekStart returns UTC midnight of the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	back := (int(day.Weekday()) + 6) % 7 // Monday -> 0, Sunday -> 6
	return day.AddDate(0, 0, -back)
}

// MonthStart returns UTC midnight of the first day of t's month.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// YearStart returns UTC midnight of January 1st of t's year.
func YearStart(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// PeriodStart truncates t to the start of the period containing it.
func PeriodStart(p Period, t time.Time) time.Time {
	switch p {
	case PeriodYear:
		return YearStart(t)
	case PeriodMonth:
		return MonthStart(t)
	case PeriodWeek:
		return WeekStart(t)
	default:
		return DayStart(t, 0)
	}
}
