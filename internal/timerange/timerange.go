// Package timerange maps the UI range selectors to concrete inclusive
// [start, end] day-key intervals anchored at today.
package timerange

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"moodDiaryAPI/internal/datekey"
)

var ErrInvalidRange = errors.New("invalid range")

// Range is an inclusive interval of day keys.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Days returns the inclusive length of the range in days.
func (r Range) Days() int {
	n, err := datekey.DaysBetween(r.Start, r.End)
	if err != nil {
		return 0
	}
	return n + 1
}

// Contains reports whether the day key falls inside the range.
func (r Range) Contains(key string) bool {
	return key >= r.Start && key <= r.End
}

// Resolve maps a selector to a concrete range:
//
//	"7", "30", any positive N  ->  the last N days including today
//	"week"                     ->  the Monday..Sunday week containing today,
//	                               end bound NOT clipped to today
//	"month"                    ->  the 1st of the current month through today
//
// Anything else fails with ErrInvalidRange.
func Resolve(selector string, clock *datekey.Clock) (Range, error) {
	today := clock.Today()
	t, err := datekey.Parse(today)
	if err != nil {
		return Range{}, err
	}

	switch selector {
	case "week":
		// Monday-started week; Go weekday is Sunday-based.
		offset := (int(t.Weekday()) + 6) % 7
		start := t.AddDate(0, 0, -offset)
		return Range{Start: datekey.Format(start), End: datekey.Format(start.AddDate(0, 0, 6))}, nil
	case "month":
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Range{Start: datekey.Format(first), End: today}, nil
	}

	n, err := strconv.Atoi(selector)
	if err != nil || n < 1 {
		return Range{}, fmt.Errorf("%w: unknown selector %q", ErrInvalidRange, selector)
	}
	start, err := datekey.AddDays(today, -(n - 1))
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: today}, nil
}

// Custom builds a caller-supplied range, failing fast on malformed keys or a
// start after the end.
func Custom(start, end string) (Range, error) {
	if _, err := datekey.Parse(start); err != nil {
		return Range{}, err
	}
	if _, err := datekey.Parse(end); err != nil {
		return Range{}, err
	}
	if start > end {
		return Range{}, fmt.Errorf("%w: start %s after end %s", ErrInvalidRange, start, end)
	}
	return Range{Start: start, End: end}, nil
}
