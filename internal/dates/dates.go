// Package dates holds the calendar rules of the ledger: every stored date is a
// UTC midnight, and "today" is taken in the shop's own timezone.
package dates

import (
	"strings"
	"time"

	"github.com/jinzhu/now"
)

const Layout = "2006-01-02"

var (
	// Location is the shop's timezone; set from config at startup.
	Location = time.Local
	// Now is swapped in tests.
	Now = time.Now
)

var weekConfig = &now.Config{WeekStartDay: time.Monday, TimeLocation: time.UTC}

// Normalize drops the clock part and pins the calendar day to UTC.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func Today() time.Time {
	return Normalize(Now().In(Location))
}

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(t), nil
}

// ParseOrToday falls back to today on empty or malformed input.
func ParseOrToday(s string) time.Time {
	if t, err := Parse(s); err == nil {
		return t
	}
	return Today()
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// MonthBounds returns the first and last calendar day of the month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := weekConfig.With(time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)).BeginningOfMonth()
	return first, first.AddDate(0, 1, -1)
}

// WeekStart returns the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	return Normalize(weekConfig.With(Normalize(t)).BeginningOfWeek())
}

func MonthStart(t time.Time) time.Time {
	return Normalize(weekConfig.With(Normalize(t)).BeginningOfMonth())
}
