package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"moodDiaryAPI/internal/datekey"
	"moodDiaryAPI/internal/stats"
	"moodDiaryAPI/internal/store"
	"moodDiaryAPI/internal/timerange"
	"moodDiaryAPI/internal/types/entry"
)

// StatsService turns the entries of a resolved date range into the
// display-ready statistics payload. All aggregation math lives in pure
// functions over the entry slice; the service only resolves ranges, fetches
// and degrades on repository failure.
type StatsService struct {
	store   store.Store
	clock   *datekey.Clock
	streaks *StreakService
}

func NewStatsService(st store.Store, clock *datekey.Clock, streaks *StreakService) *StatsService {
	return &StatsService{store: st, clock: clock, streaks: streaks}
}

// GetRangeStats resolves a named selector ("7", "30", "week", "month", any
// positive day count) and computes statistics over it.
func (s *StatsService) GetRangeStats(ctx context.Context, accountID, selector string) (*stats.RangeStats, error) {
	r, err := timerange.Resolve(selector, s.clock)
	if err != nil {
		return nil, err
	}
	return s.statsForRange(ctx, accountID, r)
}

// GetCustomRangeStats computes statistics over caller-supplied bounds.
func (s *StatsService) GetCustomRangeStats(ctx context.Context, accountID, startKey, endKey string) (*stats.RangeStats, error) {
	r, err := timerange.Custom(startKey, endKey)
	if err != nil {
		return nil, err
	}
	return s.statsForRange(ctx, accountID, r)
}

// statsForRange degrades to the zero-entry figures when the store is
// unreachable: the payload is still returned, marked Degraded, alongside
// the error so the caller can report the condition.
func (s *StatsService) statsForRange(ctx context.Context, accountID string, r timerange.Range) (*stats.RangeStats, error) {
	if accountID == "" {
		return BuildRangeStats(nil, r), nil
	}

	entries, err := s.store.FetchRange(ctx, accountID, r.Start, r.End)
	if err != nil {
		log.Printf("StatsService: range fetch failed for %s [%s..%s]: %v", accountID, r.Start, r.End, err)
		degraded := BuildRangeStats(nil, r)
		degraded.Degraded = true
		return degraded, fmt.Errorf("fetch range: %w", err)
	}
	return BuildRangeStats(dedupeByDateKey(entries), r), nil
}

// GetDashboard bundles today's entry status, the streak pair and the range
// statistics. Secondary failures (streak, today lookup) are logged and leave
// their fields at zero values; only an unusable range keeps the dashboard
// from being built.
func (s *StatsService) GetDashboard(ctx context.Context, accountID, selector string) (*stats.Dashboard, error) {
	rangeStats, statsErr := s.GetRangeStats(ctx, accountID, selector)
	if rangeStats == nil {
		return nil, statsErr
	}

	d := &stats.Dashboard{Stats: rangeStats}

	if cache, err := s.streaks.GetStreak(ctx, accountID); err != nil {
		log.Printf("StatsService: streak lookup failed for %s: %v", accountID, err)
	} else {
		d.CurrentStreak = cache.CurrentStreak
		d.LongestStreak = cache.LongestStreak
	}

	if accountID != "" {
		if e, err := s.store.GetEntry(ctx, accountID, s.clock.Today()); err == nil {
			d.TodayLogged = true
			d.TodayMood = e.MoodType
		}
	}

	return d, statsErr
}

// BuildRangeStats computes every aggregate for the range from the given
// entries. It is a pure function: same input, same output, no hidden state.
// Entries outside the range or with an out-of-scale mood are ignored.
func BuildRangeStats(entries []entry.MoodEntry, r timerange.Range) *stats.RangeStats {
	result := &stats.RangeStats{
		StartDate: r.Start,
		EndDate:   r.End,
		TotalDays: r.Days(),
	}

	dayMoods := make(map[string][]int)
	var counts [entry.MoodMax + 1]int
	moodSum, moodCount := 0, 0
	for _, e := range entries {
		if e.MoodType < entry.MoodMin || e.MoodType > entry.MoodMax {
			continue
		}
		if !r.Contains(e.DateKey) {
			continue
		}
		dayMoods[e.DateKey] = append(dayMoods[e.DateKey], e.MoodType)
		counts[e.MoodType]++
		moodSum += e.MoodType
		moodCount++
	}

	result.TotalEntries = moodCount
	result.LoggedDays = len(dayMoods)
	if result.TotalDays > 0 {
		result.LoggingRate = int(math.Round(float64(result.LoggedDays) * 100 / float64(result.TotalDays)))
	}
	if moodCount > 0 {
		result.AverageMood = round1(float64(moodSum) / float64(moodCount))
	}

	result.Distribution = buildDistribution(counts)
	result.DominantMood = dominantMood(counts)
	result.Trend = buildTrend(dayMoods)
	result.BestDay, result.WorstDay = bestWorstWeekday(entries, r)
	result.WeekOverWeek = weekOverWeek(entries, r)
	return result
}

// buildDistribution normalizes each mood count against the range's own
// maximum count, so the most frequent mood always renders at 100 and an
// empty range yields all zeros without a division error.
func buildDistribution(counts [entry.MoodMax + 1]int) []stats.DistributionBucket {
	maxCount := 0
	for mood := entry.MoodMin; mood <= entry.MoodMax; mood++ {
		if counts[mood] > maxCount {
			maxCount = counts[mood]
		}
	}

	buckets := make([]stats.DistributionBucket, 0, entry.MoodMax)
	for mood := entry.MoodMin; mood <= entry.MoodMax; mood++ {
		pct := 0
		if maxCount > 0 {
			pct = int(math.Round(float64(counts[mood]) * 100 / float64(maxCount)))
		}
		buckets = append(buckets, stats.DistributionBucket{MoodType: mood, Count: counts[mood], Percent: pct})
	}
	return buckets
}

// dominantMood returns the mood with the highest count, lowest mood first on
// ties, or 0 when there are no entries.
func dominantMood(counts [entry.MoodMax + 1]int) int {
	dominant, best := 0, 0
	for mood := entry.MoodMin; mood <= entry.MoodMax; mood++ {
		if counts[mood] > best {
			best = counts[mood]
			dominant = mood
		}
	}
	return dominant
}

// buildTrend emits one point per distinct logged day, averaged within the
// day and sorted ascending. Days without entries produce no point; the
// trend line is sparse by design.
func buildTrend(dayMoods map[string][]int) []stats.TrendPoint {
	days := make([]string, 0, len(dayMoods))
	for d := range dayMoods {
		days = append(days, d)
	}
	sort.Strings(days)

	points := make([]stats.TrendPoint, 0, len(days))
	for _, d := range days {
		sum := 0
		for _, m := range dayMoods[d] {
			sum += m
		}
		points = append(points, stats.TrendPoint{
			Date:        d,
			AverageMood: round1(float64(sum) / float64(len(dayMoods[d]))),
		})
	}
	return points
}

// bestWorstWeekday buckets entries by day of week (Sunday..Saturday) and
// reports the buckets with the highest and lowest average mood. On a tie
// the earlier bucket in Sunday..Saturday order wins; that tie-break is
// deliberate and stable.
func bestWorstWeekday(entries []entry.MoodEntry, r timerange.Range) (best, worst *stats.WeekdayStat) {
	var sums, counts [7]int
	for _, e := range entries {
		if e.MoodType < entry.MoodMin || e.MoodType > entry.MoodMax || !r.Contains(e.DateKey) {
			continue
		}
		wd, err := datekey.Weekday(e.DateKey)
		if err != nil {
			continue
		}
		sums[wd] += e.MoodType
		counts[wd]++
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if counts[wd] == 0 {
			continue
		}
		avg := round1(float64(sums[wd]) / float64(counts[wd]))
		stat := &stats.WeekdayStat{Weekday: wd.String(), AverageMood: avg, Count: counts[wd]}
		if best == nil || avg > best.AverageMood {
			best = stat
		}
		if worst == nil || avg < worst.AverageMood {
			worst = stat
		}
	}
	return best, worst
}

// weekOverWeek compares the last 7 days of the range against the 7 days
// before them. Nil means not enough data: one of the windows has no entries.
func weekOverWeek(entries []entry.MoodEntry, r timerange.Range) *stats.WeekDelta {
	recentStart, err := datekey.AddDays(r.End, -6)
	if err != nil {
		return nil
	}
	prevStart, err := datekey.AddDays(r.End, -13)
	if err != nil {
		return nil
	}
	prevEnd, err := datekey.AddDays(r.End, -7)
	if err != nil {
		return nil
	}

	var recentSum, recentN, prevSum, prevN int
	for _, e := range entries {
		if e.MoodType < entry.MoodMin || e.MoodType > entry.MoodMax {
			continue
		}
		switch {
		case e.DateKey >= recentStart && e.DateKey <= r.End:
			recentSum += e.MoodType
			recentN++
		case e.DateKey >= prevStart && e.DateKey <= prevEnd:
			prevSum += e.MoodType
			prevN++
		}
	}
	if recentN == 0 || prevN == 0 {
		return nil
	}

	recentAvg := float64(recentSum) / float64(recentN)
	prevAvg := float64(prevSum) / float64(prevN)
	return &stats.WeekDelta{
		Delta:       round1(recentAvg - prevAvg),
		RecentAvg:   round1(recentAvg),
		PreviousAvg: round1(prevAvg),
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
