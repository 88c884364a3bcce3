package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"moodDiaryAPI/internal/datekey"
	"moodDiaryAPI/internal/store"
	"moodDiaryAPI/internal/types/entry"
	"moodDiaryAPI/internal/types/streak"
)

// hookStore wraps the in-memory backend with failure injection and call
// counters, standing in for an unreachable remote store.
type hookStore struct {
	*store.MemoryStore

	fetchAllCalls  int
	failReads      bool
	failCacheWrite bool
}

func newHookStore() *hookStore {
	return &hookStore{MemoryStore: store.NewMemoryStore()}
}

func (h *hookStore) FetchAll(ctx context.Context, accountID string) ([]entry.MoodEntry, error) {
	h.fetchAllCalls++
	if h.failReads {
		return nil, fmt.Errorf("fetch all: %w", store.ErrUnavailable)
	}
	return h.MemoryStore.FetchAll(ctx, accountID)
}

func (h *hookStore) FetchRange(ctx context.Context, accountID, startKey, endKey string) ([]entry.MoodEntry, error) {
	if h.failReads {
		return nil, fmt.Errorf("fetch range: %w", store.ErrUnavailable)
	}
	return h.MemoryStore.FetchRange(ctx, accountID, startKey, endKey)
}

func (h *hookStore) WriteStreakCache(ctx context.Context, accountID string, c *streak.Cache) error {
	if h.failCacheWrite {
		return fmt.Errorf("write streak cache: %w", store.ErrUnavailable)
	}
	return h.MemoryStore.WriteStreakCache(ctx, accountID, c)
}

func fixedClock(t *testing.T, today string) *datekey.Clock {
	t.Helper()
	clock, err := datekey.NewFixedClock(today)
	if err != nil {
		t.Fatalf("fixed clock: %v", err)
	}
	return clock
}

func seedEntries(t *testing.T, st store.Store, accountID string, moodsByDay map[string]int) {
	t.Helper()
	ctx := context.Background()
	for key, mood := range moodsByDay {
		if err := st.UpsertEntry(ctx, accountID, &entry.MoodEntry{DateKey: key, MoodType: mood}); err != nil {
			t.Fatalf("seed entry %s: %v", key, err)
		}
	}
}

func mustBeNotFound(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
