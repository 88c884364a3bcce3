package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"moodDiaryAPI/internal/datekey"
	"moodDiaryAPI/internal/store"
	"moodDiaryAPI/internal/types/entry"
	"moodDiaryAPI/internal/types/streak"
)

// ErrCacheWriteFailed means the streak values were recomputed fine but
// persisting them failed. Callers log it; it never fails the entry write
// that triggered the recompute.
var ErrCacheWriteFailed = errors.New("streak cache write failed")

// StreakService owns the per-account streak cache: it answers streak reads
// from a valid cache and rewrites the cache from full history after every
// entry mutation.
type StreakService struct {
	store store.Store
	clock *datekey.Clock
}

func NewStreakService(st store.Store, clock *datekey.Clock) *StreakService {
	return &StreakService{store: st, clock: clock}
}

// ComputeStreaks derives the current and longest streak from the set of day
// keys that have an entry. The current streak walks backwards from today,
// or from yesterday when today has no entry yet (grace day), and stops at
// the first missing day. The longest streak is the longest run of
// consecutive distinct days anywhere in history.
func ComputeStreaks(dayKeys []string, today string) (current, longest int) {
	days := make(map[string]bool, len(dayKeys))
	for _, k := range dayKeys {
		if _, err := datekey.Parse(k); err != nil {
			continue
		}
		days[k] = true
	}
	if len(days) == 0 {
		return 0, 0
	}

	start := ""
	if days[today] {
		start = today
	} else if yesterday, err := datekey.AddDays(today, -1); err == nil && days[yesterday] {
		start = yesterday
	}
	for d := start; start != "" && days[d]; {
		current++
		prev, err := datekey.AddDays(d, -1)
		if err != nil {
			break
		}
		d = prev
	}

	distinct := make([]string, 0, len(days))
	for k := range days {
		distinct = append(distinct, k)
	}
	sort.Strings(distinct)

	run := 1
	longest = 1
	for i := 1; i < len(distinct); i++ {
		if datekey.Next(distinct[i-1]) == distinct[i] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return current, longest
}

// GetStreak returns the streak pair for an account, preferring the cache.
// The cache is trusted only when it is structurally valid and was computed
// today in the diary timezone; a cache from an earlier day may overstate
// the current streak, so it is recomputed once per day boundary.
func (s *StreakService) GetStreak(ctx context.Context, accountID string) (*streak.Cache, error) {
	if accountID == "" {
		return &streak.Cache{LastCalculated: s.clock.Now()}, nil
	}

	cached, err := s.store.ReadStreakCache(ctx, accountID)
	if err == nil && cached.Valid() && s.clock.Key(cached.LastCalculated) == s.clock.Today() {
		return cached, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("StreakService: cache read failed for %s, recomputing: %v", accountID, err)
	}

	fresh, err := s.RecomputeAndStore(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrCacheWriteFailed) && fresh != nil {
			log.Printf("StreakService: %v", err)
			return fresh, nil
		}
		return nil, err
	}
	return fresh, nil
}

// RecomputeAndStore re-derives both streak values from the complete entry
// set and overwrites the cache unconditionally. A persistence failure is
// returned as ErrCacheWriteFailed together with the freshly computed values.
func (s *StreakService) RecomputeAndStore(ctx context.Context, accountID string) (*streak.Cache, error) {
	entries, err := s.store.FetchAll(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	current, longest := ComputeStreaks(dayKeysOf(entries), s.clock.Today())
	cache := &streak.Cache{
		CurrentStreak:  current,
		LongestStreak:  longest,
		LastCalculated: s.clock.Now(),
	}

	if err := s.store.WriteStreakCache(ctx, accountID, cache); err != nil {
		return cache, fmt.Errorf("%w for %s: %w", ErrCacheWriteFailed, accountID, err)
	}
	return cache, nil
}

func dayKeysOf(entries []entry.MoodEntry) []string {
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.DateKey)
	}
	return keys
}
