package services_test

import (
	"context"
	"errors"
	"testing"

	"moodDiaryAPI/internal/timerange"
	"moodDiaryAPI/internal/types/entry"
	"moodDiaryAPI/services"
)

func entriesOf(moodsByDay map[string]int) []entry.MoodEntry {
	out := make([]entry.MoodEntry, 0, len(moodsByDay))
	for key, mood := range moodsByDay {
		out = append(out, entry.MoodEntry{DateKey: key, MoodType: mood})
	}
	return out
}

func TestDistributionNormalizesToMaxCount(t *testing.T) {
	r := timerange.Range{Start: "2024-01-01", End: "2024-01-07"}
	entries := entriesOf(map[string]int{
		"2024-01-01": 5,
		"2024-01-02": 5,
		"2024-01-03": 5,
		"2024-01-04": 2,
	})

	got := services.BuildRangeStats(entries, r)

	for _, b := range got.Distribution {
		switch b.MoodType {
		case 5:
			if b.Count != 3 || b.Percent != 100 {
				t.Errorf("mood 5 = %+v, want count 3 at 100%%", b)
			}
		case 2:
			if b.Count != 1 || b.Percent != 33 {
				t.Errorf("mood 2 = %+v, want count 1 at 33%%", b)
			}
		default:
			if b.Count != 0 || b.Percent != 0 {
				t.Errorf("mood %d = %+v, want zero", b.MoodType, b)
			}
		}
	}
	if got.DominantMood != 5 {
		t.Errorf("dominant = %d, want 5", got.DominantMood)
	}
}

func TestDistributionEmptySet(t *testing.T) {
	r := timerange.Range{Start: "2024-01-01", End: "2024-01-07"}
	got := services.BuildRangeStats(nil, r)

	if len(got.Distribution) != 5 {
		t.Fatalf("expected 5 buckets, got %d", len(got.Distribution))
	}
	for _, b := range got.Distribution {
		if b.Count != 0 || b.Percent != 0 {
			t.Errorf("bucket %+v should be zero", b)
		}
	}
	if got.DominantMood != 0 {
		t.Errorf("dominant = %d, want 0 for empty set", got.DominantMood)
	}
	if got.LoggingRate != 0 || got.AverageMood != 0 {
		t.Errorf("empty set should yield zero rate and average: %+v", got)
	}
}

func TestTrendIsSparse(t *testing.T) {
	// Entries only on days 1 and 5 of a 7-day window: exactly 2 points.
	r := timerange.Range{Start: "2024-01-01", End: "2024-01-07"}
	entries := entriesOf(map[string]int{
		"2024-01-01": 4,
		"2024-01-05": 2,
	})

	got := services.BuildRangeStats(entries, r)
	if len(got.Trend) != 2 {
		t.Fatalf("expected 2 trend points, got %d", len(got.Trend))
	}
	if got.Trend[0].Date != "2024-01-01" || got.Trend[1].Date != "2024-01-05" {
		t.Errorf("trend not sorted ascending: %+v", got.Trend)
	}
}

func TestTrendAveragesWithinDay(t *testing.T) {
	r := timerange.Range{Start: "2024-01-01", End: "2024-01-07"}
	entries := []entry.MoodEntry{
		{DateKey: "2024-01-03", MoodType: 2},
		{DateKey: "2024-01-03", MoodType: 5},
	}

	got := services.BuildRangeStats(entries, r)
	if len(got.Trend) != 1 {
		t.Fatalf("expected 1 trend point, got %d", len(got.Trend))
	}
	if got.Trend[0].AverageMood != 3.5 {
		t.Errorf("same-day average = %v, want 3.5", got.Trend[0].AverageMood)
	}
}

func TestLoggingRateBoundaries(t *testing.T) {
	r := timerange.Range{Start: "2024-01-01", End: "2024-01-07"}

	full := entriesOf(map[string]int{
		"2024-01-01": 3, "2024-01-02": 3, "2024-01-03": 3, "2024-01-04": 3,
		"2024-01-05": 3, "2024-01-06": 3, "2024-01-07": 3,
	})
	if got := services.BuildRangeStats(full, r); got.LoggingRate != 100 {
		t.Errorf("full week rate = %d, want 100", got.LoggingRate)
	}

	if got := services.BuildRangeStats(nil, r); got.LoggingRate != 0 {
		t.Errorf("empty rate = %d, want 0", got.LoggingRate)
	}

	// Duplicate same-day records count as one logged day.
	dup := []entry.MoodEntry{
		{DateKey: "2024-01-01", MoodType: 3},
		{DateKey: "2024-01-01", MoodType: 5},
	}
	got := services.BuildRangeStats(dup, r)
	if got.LoggedDays != 1 {
		t.Errorf("logged days = %d, want 1", got.LoggedDays)
	}
	if got.LoggingRate != 14 {
		t.Errorf("rate = %d, want 14", got.LoggingRate)
	}
}

func TestBestAndWorstWeekday(t *testing.T) {
	// Mondays at mood 5, Fridays at mood 1.
	r := timerange.Range{Start: "2024-01-01", End: "2024-01-14"}
	entries := entriesOf(map[string]int{
		"2024-01-01": 5, // Monday
		"2024-01-08": 5, // Monday
		"2024-01-05": 1, // Friday
		"2024-01-12": 1, // Friday
	})

	got := services.BuildRangeStats(entries, r)
	if got.BestDay == nil || got.BestDay.Weekday != "Monday" || got.BestDay.AverageMood != 5.0 {
		t.Errorf("best day = %+v, want Monday at 5.0", got.BestDay)
	}
	if got.WorstDay == nil || got.WorstDay.Weekday != "Friday" || got.WorstDay.AverageMood != 1.0 {
		t.Errorf("worst day = %+v, want Friday at 1.0", got.WorstDay)
	}
}

func TestBestWorstWeekdayTieBreak(t *testing.T) {
	// Sunday and Monday tie at 3.0: the earlier bucket in Sun..Sat order
	// wins both slots.
	r := timerange.Range{Start: "2024-01-07", End: "2024-01-13"}
	entries := entriesOf(map[string]int{
		"2024-01-07": 3, // Sunday
		"2024-01-08": 3, // Monday
	})

	got := services.BuildRangeStats(entries, r)
	if got.BestDay == nil || got.BestDay.Weekday != "Sunday" {
		t.Errorf("best day = %+v, want Sunday on tie", got.BestDay)
	}
	if got.WorstDay == nil || got.WorstDay.Weekday != "Sunday" {
		t.Errorf("worst day = %+v, want Sunday on tie", got.WorstDay)
	}
}

func TestDominantMoodTieBreak(t *testing.T) {
	r := timerange.Range{Start: "2024-01-01", End: "2024-01-07"}
	entries := entriesOf(map[string]int{
		"2024-01-01": 2,
		"2024-01-02": 4,
	})

	got := services.BuildRangeStats(entries, r)
	if got.DominantMood != 2 {
		t.Errorf("dominant = %d, want 2 (first encountered on tie)", got.DominantMood)
	}
}

func TestWeekOverWeekDelta(t *testing.T) {
	r := timerange.Range{Start: "2024-01-01", End: "2024-01-14"}
	entries := entriesOf(map[string]int{
		"2024-01-02": 2, // previous window
		"2024-01-04": 2,
		"2024-01-09": 4, // recent window
		"2024-01-11": 5,
	})

	got := services.BuildRangeStats(entries, r)
	if got.WeekOverWeek == nil {
		t.Fatal("expected a week-over-week delta")
	}
	if got.WeekOverWeek.Delta != 2.5 {
		t.Errorf("delta = %v, want 2.5", got.WeekOverWeek.Delta)
	}
	if got.WeekOverWeek.RecentAvg != 4.5 || got.WeekOverWeek.PreviousAvg != 2.0 {
		t.Errorf("averages = %+v, want 4.5 vs 2.0", got.WeekOverWeek)
	}
}

func TestWeekOverWeekNotEnoughData(t *testing.T) {
	r := timerange.Range{Start: "2024-01-01", End: "2024-01-14"}

	// Only the recent window has entries.
	recentOnly := entriesOf(map[string]int{"2024-01-12": 4})
	if got := services.BuildRangeStats(recentOnly, r); got.WeekOverWeek != nil {
		t.Errorf("expected nil delta with empty previous window, got %+v", got.WeekOverWeek)
	}

	// Only the previous window has entries.
	prevOnly := entriesOf(map[string]int{"2024-01-03": 4})
	if got := services.BuildRangeStats(prevOnly, r); got.WeekOverWeek != nil {
		t.Errorf("expected nil delta with empty recent window, got %+v", got.WeekOverWeek)
	}
}

func TestBuildRangeStatsIdempotent(t *testing.T) {
	r := timerange.Range{Start: "2024-01-01", End: "2024-01-14"}
	entries := entriesOf(map[string]int{
		"2024-01-02": 2, "2024-01-05": 4, "2024-01-09": 3, "2024-01-11": 5,
	})

	a := services.BuildRangeStats(entries, r)
	b := services.BuildRangeStats(entries, r)
	if a.AverageMood != b.AverageMood || a.LoggingRate != b.LoggingRate ||
		a.DominantMood != b.DominantMood || len(a.Trend) != len(b.Trend) {
		t.Errorf("recompute differs: %+v vs %+v", a, b)
	}
}

func TestBuildRangeStatsIgnoresOutOfRangeAndGarbage(t *testing.T) {
	r := timerange.Range{Start: "2024-01-01", End: "2024-01-07"}
	entries := []entry.MoodEntry{
		{DateKey: "2024-01-03", MoodType: 4},
		{DateKey: "2023-12-31", MoodType: 5}, // before range
		{DateKey: "2024-01-08", MoodType: 5}, // after range
		{DateKey: "2024-01-04", MoodType: 9}, // off the scale
	}

	got := services.BuildRangeStats(entries, r)
	if got.TotalEntries != 1 {
		t.Errorf("total entries = %d, want 1", got.TotalEntries)
	}
	if got.AverageMood != 4.0 {
		t.Errorf("average = %v, want 4.0", got.AverageMood)
	}
}

func TestGetRangeStatsInvalidSelector(t *testing.T) {
	svc := services.NewStatsService(newHookStore(), fixedClock(t, "2024-01-10"), nil)
	if _, err := svc.GetRangeStats(context.Background(), "acc_1", "forever"); !errors.Is(err, timerange.ErrInvalidRange) {
		t.Errorf("got %v, want ErrInvalidRange", err)
	}
}

func TestGetCustomRangeStatsFailsFast(t *testing.T) {
	st := newHookStore()
	st.failReads = true // would fail loudly if the repository were contacted
	svc := services.NewStatsService(st, fixedClock(t, "2024-01-10"), nil)

	if _, err := svc.GetCustomRangeStats(context.Background(), "acc_1", "2024-01-09", "2024-01-02"); !errors.Is(err, timerange.ErrInvalidRange) {
		t.Errorf("got %v, want ErrInvalidRange before any fetch", err)
	}
}

func TestGetRangeStatsDegradesWhenStoreDown(t *testing.T) {
	st := newHookStore()
	st.failReads = true
	svc := services.NewStatsService(st, fixedClock(t, "2024-01-10"), nil)

	got, err := svc.GetRangeStats(context.Background(), "acc_1", "7")
	if got == nil {
		t.Fatal("expected a degraded payload, got nil")
	}
	if !got.Degraded {
		t.Error("payload should be flagged degraded")
	}
	if err == nil {
		t.Error("the failure must still be surfaced to the caller")
	}
	if got.TotalEntries != 0 || got.LoggingRate != 0 {
		t.Errorf("degraded payload should carry zero-entry defaults: %+v", got)
	}
}

func TestGetRangeStatsNoAccount(t *testing.T) {
	svc := services.NewStatsService(newHookStore(), fixedClock(t, "2024-01-10"), nil)
	got, err := svc.GetRangeStats(context.Background(), "", "7")
	if err != nil {
		t.Fatalf("no account should mean no data, not an error: %v", err)
	}
	if got.TotalEntries != 0 || got.Degraded {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestGetDashboard(t *testing.T) {
	ctx := context.Background()
	st := newHookStore()
	clock := fixedClock(t, "2024-01-10")
	streaks := services.NewStreakService(st, clock)
	svc := services.NewStatsService(st, clock, streaks)
	seedEntries(t, st, "acc_1", map[string]int{
		"2024-01-08": 3,
		"2024-01-09": 4,
		"2024-01-10": 5,
	})

	d, err := svc.GetDashboard(ctx, "acc_1", "7")
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if !d.TodayLogged || d.TodayMood != 5 {
		t.Errorf("today = (%v, %d), want (true, 5)", d.TodayLogged, d.TodayMood)
	}
	if d.CurrentStreak != 3 || d.LongestStreak != 3 {
		t.Errorf("streaks = (%d, %d), want (3, 3)", d.CurrentStreak, d.LongestStreak)
	}
	if d.Stats == nil || d.Stats.LoggedDays != 3 {
		t.Errorf("stats = %+v, want 3 logged days", d.Stats)
	}
}
