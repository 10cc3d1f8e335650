package roster

import "time"

// DateLayout is the wire format for work dates.
const DateLayout = "2006-01-02"

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday 00:00 of the week containing t.
func WeekStart(t time.Time) time.Time {
	d := DateOnly(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekStartForOffset returns the Monday of the week `offset` weeks after the
// current one. Offset 0 is the running week.
func WeekStartForOffset(now time.Time, offset int) time.Time {
	return WeekStart(now).AddDate(0, 0, 7*offset)
}

// WeekDates lists the seven dates of the week starting at weekStart.
func WeekDates(weekStart time.Time) []time.Time {
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = weekStart.AddDate(0, 0, i)
	}
	return dates
}

// InWeek reports whether date falls inside the week starting at weekStart.
func InWeek(date time.Time, weekStart time.Time) bool {
	d := DateOnly(date)
	return !d.Before(weekStart) && d.Before(weekStart.AddDate(0, 0, 7))
}

// DayName returns the catalog day key for a date ("Monday" .. "Sunday").
func DayName(date time.Time) string {
	return date.Weekday().String()
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}
