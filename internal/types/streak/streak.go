package streak

import "time"

// Cache is the per-account streak record. It is derived data, owned and
// overwritten by the streak service; it can be dropped and rebuilt from the
// full entry set at any time.
type Cache struct {
	CurrentStreak  int       `json:"current_streak" firestore:"current_streak" db:"current_streak"`
	LongestStreak  int       `json:"longest_streak" firestore:"longest_streak" db:"longest_streak"`
	LastCalculated time.Time `json:"last_calculated" firestore:"last_calculated" db:"last_calculated"`
}

// Valid reports whether the record is structurally usable: a zero
// LastCalculated or negative counters mean a missing or corrupted cache.
func (c *Cache) Valid() bool {
	if c == nil {
		return false
	}
	return !c.LastCalculated.IsZero() && c.CurrentStreak >= 0 && c.LongestStreak >= 0
}
