package calendar

import "time"

// Day truncates t to midnight of its UTC calendar date. Stored days are UTC
// midnights, so a value read back in another location keeps its date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether day falls on a Saturday or Sunday.
func IsWeekend(day time.Time) bool {
	switch Day(day).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// DaysBetween returns the number of calendar days in [start, end], or 0 when end is before start.
func DaysBetween(start, end time.Time) int {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
