package datekey

import (
	"fmt"
	"time"
)

// Clock answers "which day is today" in one fixed IANA timezone, regardless
// of where the process runs. All components share a single Clock so the
// streak walk, the range resolver and the calendar agree on the day boundary.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock loads the named IANA zone ("Europe/Sofia", "UTC", ...).
func NewClock(tz string) (*Clock, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewFixedClock pins "today" to the given day key. Used by tests.
func NewFixedClock(key string) (*Clock, error) {
	t, err := Parse(key)
	if err != nil {
		return nil, err
	}
	return &Clock{loc: time.UTC, now: func() time.Time { return t.Add(12 * time.Hour) }}, nil
}

// Today returns the current day key in the configured zone.
func (c *Clock) Today() string {
	return c.now().In(c.loc).Format(Layout)
}

// Key returns the day key for an arbitrary instant in the configured zone.
func (c *Clock) Key(t time.Time) string {
	return t.In(c.loc).Format(Layout)
}

// Now returns the current instant; persisted timestamps come from here so
// they carry the same notion of time as Today.
func (c *Clock) Now() time.Time {
	return c.now()
}

// Location exposes the configured zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}
