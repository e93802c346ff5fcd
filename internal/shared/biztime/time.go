// Package biztime provides utilities for billing-period and activity-date
// calculations. All storage and transport use UTC; usage reset dates are
// always the first day of a month at midnight UTC, and streak math works
// on calendar dates with the time component discarded.
package biztime

import (
	"fmt"
	"time"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// DateOnly strips the time-of-day component, leaving midnight UTC of the
// same calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonth returns midnight UTC on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonthStart returns midnight UTC on the first day of the month after t's.
func NextMonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
}

// SameMonth reports whether a and b fall in the same calendar month (UTC).
func SameMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// WholeDaysBetween returns the number of whole calendar days from earlier
// to later, ignoring time of day. Same date yields 0, consecutive dates 1.
// A negative result means later is before earlier.
func WholeDaysBetween(earlier, later time.Time) int {
	from := DateOnly(earlier)
	to := DateOnly(later)
	return int(to.Sub(from) / (24 * time.Hour))
}

// StartOfDay returns midnight UTC of t's calendar date. Alias of DateOnly
// kept for query-boundary readability.
func StartOfDay(t time.Time) time.Time {
	return DateOnly(t)
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", dateStr, err)
	}
	return t.UTC(), nil
}

// FormatDate formats a time as its YYYY-MM-DD calendar date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
