// Package date parses due dates and provides the local-calendar helpers
// used for due-date windows.
package date

import (
	"fmt"
	"strings"
	"time"
)

const format = "2006-01-02"

// dueLayouts are tried in order when parsing a free-form due date.
// Layouts without a zone are interpreted in local time.
var dueLayouts = []string{
	format,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseDay parses a YYYY-MM-DD string into local midnight of that day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(format, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseDue parses an ISO-8601 due date. Date-only values resolve to local
// midnight. The second result is false for empty or unparseable input,
// which callers treat as "no due date".
func ParseDue(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dueLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ValidateDue reports whether s is a due date ParseDue accepts.
func ValidateDue(s string) error {
	if _, ok := ParseDue(s); !ok {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return nil
}

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// StartOfWeek returns local midnight of the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 //nolint:mnd // Monday-based weekday index
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth returns local midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// SameWeek reports whether a and b fall in the same Monday-start week.
func SameWeek(a, b time.Time) bool {
	return StartOfWeek(a).Equal(StartOfWeek(b))
}

// SameMonth reports whether a and b fall in the same local calendar month.
func SameMonth(a, b time.Time) bool {
	return StartOfMonth(a).Equal(StartOfMonth(b))
}
