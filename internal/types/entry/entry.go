package entry

import (
	"errors"
	"fmt"

	"moodDiaryAPI/internal/datekey"
)

const (
	MoodMin = 1
	MoodMax = 5
)

var ErrInvalidMood = errors.New("invalid mood type")

// MoodEntry is one mood record for one calendar day. DateKey is the record
// ID within an account: writes are upserts keyed by it, so there is never
// more than one stored entry per (account, day).
type MoodEntry struct {
	DateKey  string `json:"date" firestore:"date" db:"date"`
	MoodType int    `json:"mood_type" firestore:"mood_type" db:"mood_type"`
	Note     string `json:"note,omitempty" firestore:"note,omitempty" db:"note"`
}

// Validate checks the day key and the mood scale.
func (e *MoodEntry) Validate() error {
	if _, err := datekey.Parse(e.DateKey); err != nil {
		return err
	}
	if e.MoodType < MoodMin || e.MoodType > MoodMax {
		return fmt.Errorf("%w: must be between %d and %d, got %d", ErrInvalidMood, MoodMin, MoodMax, e.MoodType)
	}
	return nil
}

type UpsertEntryRequest struct {
	MoodType int    `json:"mood_type"`
	Note     string `json:"note"`
}
