package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"moodDiaryAPI/internal/datekey"
	"moodDiaryAPI/internal/store"
	"moodDiaryAPI/internal/timerange"
	"moodDiaryAPI/internal/types/calendar"
	"moodDiaryAPI/internal/types/entry"
)

// EntryService owns the entry lifecycle. Every successful mutation triggers
// a streak recompute; a recompute failure is logged and never rolled back
// into the entry write.
type EntryService struct {
	store   store.Store
	clock   *datekey.Clock
	streaks *StreakService
}

func NewEntryService(st store.Store, clock *datekey.Clock, streaks *StreakService) *EntryService {
	return &EntryService{store: st, clock: clock, streaks: streaks}
}

// UpsertEntry creates or overwrites the entry for one day. The day key is
// the record ID, so a second save for the same day replaces the first.
func (s *EntryService) UpsertEntry(ctx context.Context, accountID, dateKey string, req *entry.UpsertEntryRequest) (*entry.MoodEntry, error) {
	if accountID == "" {
		return nil, errors.New("account id required")
	}

	e := &entry.MoodEntry{DateKey: dateKey, MoodType: req.MoodType, Note: req.Note}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.UpsertEntry(ctx, accountID, e); err != nil {
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	s.refreshStreaks(ctx, accountID)
	return e, nil
}

func (s *EntryService) GetEntry(ctx context.Context, accountID, dateKey string) (*entry.MoodEntry, error) {
	if _, err := datekey.Parse(dateKey); err != nil {
		return nil, err
	}
	if accountID == "" {
		return nil, store.ErrNotFound
	}
	return s.store.GetEntry(ctx, accountID, dateKey)
}

// DeleteEntry removes the entry for one day and recomputes the streak cache
// so it never depends on a deleted record.
func (s *EntryService) DeleteEntry(ctx context.Context, accountID, dateKey string) error {
	if _, err := datekey.Parse(dateKey); err != nil {
		return err
	}
	if accountID == "" {
		return store.ErrNotFound
	}

	if err := s.store.DeleteEntry(ctx, accountID, dateKey); err != nil {
		return err
	}

	s.refreshStreaks(ctx, accountID)
	return nil
}

// ListRange returns the entries of a resolved selector range, ordered by
// date and deduplicated by day key.
func (s *EntryService) ListRange(ctx context.Context, accountID, selector string) ([]entry.MoodEntry, error) {
	r, err := timerange.Resolve(selector, s.clock)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, accountID, r)
}

// ListCustomRange is ListRange for caller-supplied bounds.
func (s *EntryService) ListCustomRange(ctx context.Context, accountID, startKey, endKey string) ([]entry.MoodEntry, error) {
	r, err := timerange.Custom(startKey, endKey)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, accountID, r)
}

func (s *EntryService) list(ctx context.Context, accountID string, r timerange.Range) ([]entry.MoodEntry, error) {
	if accountID == "" {
		return []entry.MoodEntry{}, nil
	}
	entries, err := s.store.FetchRange(ctx, accountID, r.Start, r.End)
	if err != nil {
		return nil, err
	}
	return dedupeByDateKey(entries), nil
}

// GetCalendar returns one cell per day of the given month with the logged
// mood, for the calendar grid. Days without an entry carry mood 0.
func (s *EntryService) GetCalendar(ctx context.Context, accountID string, year, month int) (*calendar.CalendarResponse, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month: %d", month)
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)

	moodByDay := make(map[string]int)
	if accountID != "" {
		entries, err := s.store.FetchRange(ctx, accountID, datekey.Format(startDate), datekey.Format(endDate))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch calendar: %w", err)
		}
		for _, e := range entries {
			moodByDay[e.DateKey] = e.MoodType
		}
	}

	today := s.clock.Today()
	var days []*calendar.CalendarDay
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		key := datekey.Format(d)
		mood, has := moodByDay[key]
		days = append(days, &calendar.CalendarDay{
			Date:     key,
			Mood:     mood,
			HasEntry: has,
			IsToday:  key == today,
		})
	}

	return &calendar.CalendarResponse{Year: year, Month: month, Days: days}, nil
}

func (s *EntryService) refreshStreaks(ctx context.Context, accountID string) {
	if _, err := s.streaks.RecomputeAndStore(ctx, accountID); err != nil {
		log.Printf("EntryService: streak recompute failed for %s: %v", accountID, err)
	}
}

// dedupeByDateKey collapses duplicate records for the same day, keeping the
// last one seen. Reads are at-least-once, so the same document may appear
// twice across pages.
func dedupeByDateKey(entries []entry.MoodEntry) []entry.MoodEntry {
	seen := make(map[string]int, len(entries))
	out := make([]entry.MoodEntry, 0, len(entries))
	for _, e := range entries {
		if i, ok := seen[e.DateKey]; ok {
			out[i] = e
			continue
		}
		seen[e.DateKey] = len(out)
		out = append(out, e)
	}
	return out
}
