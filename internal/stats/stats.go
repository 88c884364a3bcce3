package stats

// DistributionBucket is one bar of the mood histogram. Percent is relative
// to the most frequent mood in the range (the tallest bar is always 100),
// not to the total entry count.
type DistributionBucket struct {
	MoodType int `json:"mood_type"`
	Count    int `json:"count"`
	Percent  int `json:"percent"`
}

// TrendPoint is the average mood of one logged day. The trend is sparse:
// days without an entry produce no point.
type TrendPoint struct {
	Date        string  `json:"date"`
	AverageMood float64 `json:"average_mood"`
}

// WeekdayStat is the average mood of one day-of-week bucket.
type WeekdayStat struct {
	Weekday     string  `json:"weekday"`
	AverageMood float64 `json:"average_mood"`
	Count       int     `json:"count"`
}

// WeekDelta is the week-over-week mood change: the average of the most
// recent 7 days of the range minus the average of the 7 days before them,
// rounded to one decimal. Absent when either window has no entries.
type WeekDelta struct {
	Delta       float64 `json:"delta"`
	RecentAvg   float64 `json:"recent_avg"`
	PreviousAvg float64 `json:"previous_avg"`
}

// RangeStats is the full statistics payload for one resolved date range.
// Degraded is set when the store was unreachable and the figures are the
// zero-entry defaults rather than real data.
type RangeStats struct {
	StartDate    string               `json:"start_date"`
	EndDate      string               `json:"end_date"`
	TotalDays    int                  `json:"total_days"`
	TotalEntries int                  `json:"total_entries"`
	LoggedDays   int                  `json:"logged_days"`
	LoggingRate  int                  `json:"logging_rate"`
	AverageMood  float64              `json:"average_mood"`
	DominantMood int                  `json:"dominant_mood"`
	Distribution []DistributionBucket `json:"distribution"`
	Trend        []TrendPoint         `json:"trend"`
	BestDay      *WeekdayStat         `json:"best_day,omitempty"`
	WorstDay     *WeekdayStat         `json:"worst_day,omitempty"`
	WeekOverWeek *WeekDelta           `json:"week_over_week,omitempty"`
	Degraded     bool                 `json:"degraded,omitempty"`
}

// Dashboard bundles today's status, the streak pair and the range stats the
// home screen renders from.
type Dashboard struct {
	TodayLogged   bool        `json:"today_logged"`
	TodayMood     int         `json:"today_mood"`
	CurrentStreak int         `json:"current_streak"`
	LongestStreak int         `json:"longest_streak"`
	Stats         *RangeStats `json:"stats"`
}
