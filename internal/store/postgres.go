package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"moodDiaryAPI/internal/datekey"
	"moodDiaryAPI/internal/types/entry"
	"moodDiaryAPI/internal/types/streak"
)

// PostgresStore is the relational backend, for deployments that already run
// Postgres instead of Firestore. Schema:
//
//	mood_entries(account_id text, date date, mood_type int, note text,
//	             updated_at timestamptz, PRIMARY KEY (account_id, date))
//	streak_caches(account_id text PRIMARY KEY, current_streak int,
//	             longest_streak int, last_calculated timestamptz)
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FetchRange(ctx context.Context, accountID, startKey, endKey string) ([]entry.MoodEntry, error) {
	query := `
	SELECT date, mood_type, COALESCE(note, '')
	FROM mood_entries
	WHERE account_id = $1
		AND date >= $2
		AND date <= $3
	ORDER BY date
	`

	rows, err := s.db.Query(ctx, query, accountID, startKey, endKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *PostgresStore) FetchAll(ctx context.Context, accountID string) ([]entry.MoodEntry, error) {
	query := `
	SELECT date, mood_type, COALESCE(note, '')
	FROM mood_entries
	WHERE account_id = $1
	ORDER BY date
	`

	rows, err := s.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries: %w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows pgx.Rows) ([]entry.MoodEntry, error) {
	var out []entry.MoodEntry
	for rows.Next() {
		var date time.Time
		var e entry.MoodEntry
		if err := rows.Scan(&date, &e.MoodType, &e.Note); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		e.DateKey = datekey.Format(date)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entry rows: %w: %w", ErrUnavailable, err)
	}
	return out, nil
}

func (s *PostgresStore) GetEntry(ctx context.Context, accountID, dateKey string) (*entry.MoodEntry, error) {
	query := `
	SELECT date, mood_type, COALESCE(note, '')
	FROM mood_entries
	WHERE account_id = $1 AND date = $2
	`

	var date time.Time
	e := &entry.MoodEntry{}
	err := s.db.QueryRow(ctx, query, accountID, dateKey).Scan(&date, &e.MoodType, &e.Note)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w: %w", ErrUnavailable, err)
	}
	e.DateKey = datekey.Format(date)
	return e, nil
}

func (s *PostgresStore) UpsertEntry(ctx context.Context, accountID string, e *entry.MoodEntry) error {
	query := `
	INSERT INTO mood_entries (account_id, date, mood_type, note, updated_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (account_id, date)
	DO UPDATE SET
		mood_type = $3,
		note = $4,
		updated_at = NOW()
	`

	if _, err := s.db.Exec(ctx, query, accountID, e.DateKey, e.MoodType, e.Note); err != nil {
		return fmt.Errorf("failed to upsert entry: %w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) DeleteEntry(ctx context.Context, accountID, dateKey string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM mood_entries WHERE account_id = $1 AND date = $2`, accountID, dateKey)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w: %w", ErrUnavailable, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ReadStreakCache(ctx context.Context, accountID string) (*streak.Cache, error) {
	query := `
	SELECT current_streak, longest_streak, last_calculated
	FROM streak_caches
	WHERE account_id = $1
	`

	c := &streak.Cache{}
	err := s.db.QueryRow(ctx, query, accountID).Scan(&c.CurrentStreak, &c.LongestStreak, &c.LastCalculated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read streak cache: %w: %w", ErrUnavailable, err)
	}
	return c, nil
}

func (s *PostgresStore) WriteStreakCache(ctx context.Context, accountID string, c *streak.Cache) error {
	query := `
	INSERT INTO streak_caches (account_id, current_streak, longest_streak, last_calculated)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (account_id)
	DO UPDATE SET
		current_streak = $2,
		longest_streak = $3,
		last_calculated = $4
	`

	if _, err := s.db.Exec(ctx, query, accountID, c.CurrentStreak, c.LongestStreak, c.LastCalculated); err != nil {
		return fmt.Errorf("failed to write streak cache: %w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
