// Package datekey is the single source of date math for the diary.
// A day key is the canonical "YYYY-MM-DD" string for one calendar day in the
// configured timezone. Every other package goes through this one; nothing
// else formats or parses date strings.
package datekey

import (
	"errors"
	"fmt"
	"time"
)

const Layout = "2006-01-02"

var ErrInvalidDateKey = errors.New("invalid date key")

// Parse converts a canonical day key into a calendar date (midnight UTC).
// Keys that are malformed, non-canonical ("2024-1-02") or not a real
// calendar date ("2024-02-30") fail with ErrInvalidDateKey.
func Parse(key string) (time.Time, error) {
	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	// time.Parse accepts some non-canonical spellings; round-trip to reject them.
	if t.Format(Layout) != key {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return t, nil
}

// Format returns the day key for the calendar date of t, as-is.
// Callers that hold an instant must convert into the diary zone first;
// Clock.Key does that.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// AddDays shifts a day key by n calendar days (n may be negative).
func AddDays(key string, n int) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(Layout), nil
}

// DaysBetween returns b - a in whole days. Zero when equal, negative when b
// precedes a.
func DaysBetween(a, b string) (int, error) {
	ta, err := Parse(a)
	if err != nil {
		return 0, err
	}
	tb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

// Weekday returns the day of week for a day key.
func Weekday(key string) (time.Weekday, error) {
	t, err := Parse(key)
	if err != nil {
		return time.Sunday, err
	}
	return t.Weekday(), nil
}

// Next is AddDays(key, 1) for keys already known to be valid; it panics on
// invalid input and is meant for internal walks over stored keys.
func Next(key string) string {
	next, err := AddDays(key, 1)
	if err != nil {
		panic(err)
	}
	return next
}
