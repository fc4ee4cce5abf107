package models

import "time"

// Day is the record materialized the first time a calendar day is interacted with
type Day struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
}

// DayView is the possible/completed state of a single calendar day
type DayView struct {
	Date              time.Time `json:"date"`
	PossibleHabits    []Habit   `json:"possibleHabits"`
	CompletedHabitIDs []string  `json:"completedHabits"`
}

// IsCompleted reports whether habitID is among the completed habits
func (v DayView) IsCompleted(habitID string) bool {
	for _, id := range v.CompletedHabitIDs {
		if id == habitID {
			return true
		}
	}
	return false
}

// DaySummary holds the per-day counts reported by the summary
type DaySummary struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Completed int       `json:"completed"`
	Possible  int       `json:"possible"`
}

// CompletionState is the state of a single (day, habit) pair
type CompletionState int

const (
	Incomplete CompletionState = iota
	Complete
)

func (s CompletionState) String() string {
	if s == Complete {
		return "complete"
	}
	return "incomplete"
}
