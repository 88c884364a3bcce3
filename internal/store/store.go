// Package store is the entry repository boundary: a keyed record store
// holding mood entries (one per account and day) and the per-account streak
// cache. Backends are last-write-wins; no optimistic concurrency.
package store

import (
	"context"
	"errors"

	"moodDiaryAPI/internal/types/entry"
	"moodDiaryAPI/internal/types/streak"
)

var (
	// ErrNotFound marks a missing record (entry or streak cache).
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable marks a backend read/write failure, including network
	// and permission errors. Read paths degrade to empty data on it.
	ErrUnavailable = errors.New("store unavailable")
)

// Store is implemented by the Firestore, Postgres and in-memory backends.
// Range bounds are inclusive day keys; results come back ordered by date.
// Consumers still deduplicate by date key, since reads are at-least-once.
type Store interface {
	FetchRange(ctx context.Context, accountID, startKey, endKey string) ([]entry.MoodEntry, error)
	FetchAll(ctx context.Context, accountID string) ([]entry.MoodEntry, error)
	GetEntry(ctx context.Context, accountID, dateKey string) (*entry.MoodEntry, error)
	UpsertEntry(ctx context.Context, accountID string, e *entry.MoodEntry) error
	DeleteEntry(ctx context.Context, accountID, dateKey string) error

	ReadStreakCache(ctx context.Context, accountID string) (*streak.Cache, error)
	WriteStreakCache(ctx context.Context, accountID string, c *streak.Cache) error

	Ping(ctx context.Context) error
	Close() error
}
