package timerange

import (
	"errors"
	"testing"

	"moodDiaryAPI/internal/datekey"
)

func fixedClock(t *testing.T, today string) *datekey.Clock {
	t.Helper()
	clock, err := datekey.NewFixedClock(today)
	if err != nil {
		t.Fatalf("fixed clock: %v", err)
	}
	return clock
}

func TestResolveLastNDays(t *testing.T) {
	clock := fixedClock(t, "2024-01-10")

	cases := []struct {
		selector   string
		start, end string
		days       int
	}{
		{"7", "2024-01-04", "2024-01-10", 7},
		{"30", "2023-12-12", "2024-01-10", 30},
		{"1", "2024-01-10", "2024-01-10", 1},
		{"90", "2023-10-13", "2024-01-10", 90},
	}
	for _, c := range cases {
		r, err := Resolve(c.selector, clock)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", c.selector, err)
		}
		if r.Start != c.start || r.End != c.end {
			t.Errorf("Resolve(%q) = [%s..%s], want [%s..%s]", c.selector, r.Start, r.End, c.start, c.end)
		}
		if r.Days() != c.days {
			t.Errorf("Resolve(%q).Days() = %d, want %d", c.selector, r.Days(), c.days)
		}
	}
}

func TestResolveWeek(t *testing.T) {
	// 2024-01-10 is a Wednesday; the week runs Monday 01-08 through Sunday
	// 01-14 and the end is not clipped to today.
	r, err := Resolve("week", fixedClock(t, "2024-01-10"))
	if err != nil {
		t.Fatalf("Resolve(week) failed: %v", err)
	}
	if r.Start != "2024-01-08" || r.End != "2024-01-14" {
		t.Errorf("week = [%s..%s], want [2024-01-08..2024-01-14]", r.Start, r.End)
	}

	// On a Sunday the week started six days earlier.
	r, err = Resolve("week", fixedClock(t, "2024-01-14"))
	if err != nil {
		t.Fatalf("Resolve(week) failed: %v", err)
	}
	if r.Start != "2024-01-08" || r.End != "2024-01-14" {
		t.Errorf("week = [%s..%s], want [2024-01-08..2024-01-14]", r.Start, r.End)
	}

	// On a Monday the week starts today.
	r, err = Resolve("week", fixedClock(t, "2024-01-08"))
	if err != nil {
		t.Fatalf("Resolve(week) failed: %v", err)
	}
	if r.Start != "2024-01-08" || r.End != "2024-01-14" {
		t.Errorf("week = [%s..%s], want [2024-01-08..2024-01-14]", r.Start, r.End)
	}
}

func TestResolveMonth(t *testing.T) {
	r, err := Resolve("month", fixedClock(t, "2024-01-10"))
	if err != nil {
		t.Fatalf("Resolve(month) failed: %v", err)
	}
	if r.Start != "2024-01-01" || r.End != "2024-01-10" {
		t.Errorf("month = [%s..%s], want [2024-01-01..2024-01-10]", r.Start, r.End)
	}
}

func TestResolveInvalid(t *testing.T) {
	clock := fixedClock(t, "2024-01-10")
	for _, selector := range []string{"", "0", "-3", "yearly", "7d"} {
		if _, err := Resolve(selector, clock); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Resolve(%q) = %v, want ErrInvalidRange", selector, err)
		}
	}
}

func TestCustom(t *testing.T) {
	r, err := Custom("2024-01-01", "2024-01-05")
	if err != nil {
		t.Fatalf("Custom failed: %v", err)
	}
	if r.Days() != 5 {
		t.Errorf("Days = %d, want 5", r.Days())
	}

	if _, err := Custom("2024-01-06", "2024-01-05"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("start after end = %v, want ErrInvalidRange", err)
	}
	if _, err := Custom("2024-1-06", "2024-01-07"); !errors.Is(err, datekey.ErrInvalidDateKey) {
		t.Errorf("bad start key = %v, want ErrInvalidDateKey", err)
	}

	// Single-day range is allowed.
	r, err = Custom("2024-01-05", "2024-01-05")
	if err != nil {
		t.Fatalf("single-day Custom failed: %v", err)
	}
	if r.Days() != 1 {
		t.Errorf("Days = %d, want 1", r.Days())
	}
}

func TestContains(t *testing.T) {
	r := Range{Start: "2024-01-04", End: "2024-01-10"}
	for key, want := range map[string]bool{
		"2024-01-04": true,
		"2024-01-10": true,
		"2024-01-07": true,
		"2024-01-03": false,
		"2024-01-11": false,
	} {
		if got := r.Contains(key); got != want {
			t.Errorf("Contains(%q) = %v, want %v", key, got, want)
		}
	}
}
