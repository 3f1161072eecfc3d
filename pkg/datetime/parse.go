// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-buddy/pkg/constants"
)

const (
	// DateTimeLayout is the month layout used for schedule periods and is also
	// the output date format.
	DateTimeLayout = constants.DateTimeLayout

	// DateLayout is the full calendar date layout.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate accepts either a full date (2006-01-02) or a month (2006-01).
// A month is interpreted as its first day. Empty input yields the zero time.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateLayout, trimmed); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateTimeLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s or %s", value, DateLayout, DateTimeLayout)
	}
	return t, nil
}

// MonthStart truncates t to midnight on the first day of its month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DayStart returns midnight UTC of t's calendar day in t's own location.
// Dates parsed in different zones therefore compare by calendar day.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves t forward (or backward) by whole calendar months while
// keeping its day of month, clamped to the length of the target month. Unlike
// time.AddDate, January 31 plus one month is February 28 (or 29), never March.
func AddMonths(t time.Time, months int) time.Time {
	target := MonthStart(t).AddDate(0, months, 0)
	day := t.Day()
	if last := DaysIn(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// FormatPeriod formats a date as a schedule period label (YYYY-MM).
func FormatPeriod(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// MonthsBetween returns the number of whole calendar months from a to b,
// ignoring the day of month. It is negative when b precedes a.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*constants.MonthsPerYear + int(b.Month()) - int(a.Month())
}

// OnOrAfter reports whether a falls on or after b, comparing calendar days.
func OnOrAfter(a, b time.Time) bool {
	return !DayStart(a).Before(DayStart(b))
}
