package models

import (
	"slices"
	"time"
)

// Habit represents a recurring practice scheduled on a set of weekdays
type Habit struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"` // calendar day, UTC midnight
	WeekDays  []int     `json:"week_days"`  // 0=Sunday .. 6=Saturday
}

// PossibleOn reports whether the habit is due on the given calendar day:
// its schedule contains the day's weekday and it was created on or before it.
func (h Habit) PossibleOn(day time.Time) bool {
	if h.CreatedAt.After(day) {
		return false
	}
	return slices.Contains(h.WeekDays, int(day.Weekday()))
}
