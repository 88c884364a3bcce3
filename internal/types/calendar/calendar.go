package calendar

// CalendarDay is one cell of the month view. Mood is 0 on days without an
// entry.
type CalendarDay struct {
	Date     string `json:"date"`
	Mood     int    `json:"mood"`
	HasEntry bool   `json:"has_entry"`
	IsToday  bool   `json:"is_today"`
}

type CalendarResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []*CalendarDay `json:"days"`
}
