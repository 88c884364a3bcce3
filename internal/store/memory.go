package store

import (
	"context"
	"sort"
	"sync"

	"moodDiaryAPI/internal/types/entry"
	"moodDiaryAPI/internal/types/streak"
)

// MemoryStore is a mutex-guarded in-memory backend for tests and local
// development. It mirrors the backend contract exactly, including
// last-write-wins upserts and ErrNotFound semantics.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]entry.MoodEntry // accountID -> dateKey -> entry
	streaks map[string]streak.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]map[string]entry.MoodEntry),
		streaks: make(map[string]streak.Cache),
	}
}

func (m *MemoryStore) FetchRange(ctx context.Context, accountID, startKey, endKey string) ([]entry.MoodEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []entry.MoodEntry
	for key, e := range m.entries[accountID] {
		if key >= startKey && key <= endKey {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateKey < out[j].DateKey })
	return out, nil
}

func (m *MemoryStore) FetchAll(ctx context.Context, accountID string) ([]entry.MoodEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []entry.MoodEntry
	for _, e := range m.entries[accountID] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateKey < out[j].DateKey })
	return out, nil
}

func (m *MemoryStore) GetEntry(ctx context.Context, accountID, dateKey string) (*entry.MoodEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[accountID][dateKey]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *MemoryStore) UpsertEntry(ctx context.Context, accountID string, e *entry.MoodEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries[accountID] == nil {
		m.entries[accountID] = make(map[string]entry.MoodEntry)
	}
	m.entries[accountID][e.DateKey] = *e
	return nil
}

func (m *MemoryStore) DeleteEntry(ctx context.Context, accountID, dateKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[accountID][dateKey]; !ok {
		return ErrNotFound
	}
	delete(m.entries[accountID], dateKey)
	return nil
}

func (m *MemoryStore) ReadStreakCache(ctx context.Context, accountID string) (*streak.Cache, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.streaks[accountID]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStore) WriteStreakCache(ctx context.Context, accountID string, c *streak.Cache) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.streaks[accountID] = *c
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
