package utils

import (
	"strings"
	"time"
)

// DateLayout is the wire format for date-only values (due dates, sale dates).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string. Empty input yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

// FormatDate renders a date-only string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current date truncated to midnight UTC.
func Today() time.Time {
	return DateOnly(time.Now().UTC())
}

// DateOnly strips the time-of-day component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMonths returns t shifted by n calendar months.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}
