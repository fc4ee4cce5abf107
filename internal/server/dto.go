package server

import (
	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/models"
)

// CreateHabitRequest requires weekDays to be present; an empty array is a
// habit that is never scheduled.
type CreateHabitRequest struct {
	Title    string `json:"title"`
	WeekDays []int  `json:"weekDays" binding:"required"`
}

type HabitResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	WeekDays  []int  `json:"weekDays"`
}

type ListHabitsResponse struct {
	Items []HabitResponse `json:"items"`
}

type DayResponse struct {
	Date            string          `json:"date"`
	PossibleHabits  []HabitResponse `json:"possibleHabits"`
	CompletedHabits []string        `json:"completedHabits"`
}

type ToggleResponse struct {
	Message   string `json:"message"`
	Completed bool   `json:"completed"`
}

type SummaryEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Possible  int    `json:"possible"`
}

func habitToResponse(h models.Habit) HabitResponse {
	weekDays := h.WeekDays
	if weekDays == nil {
		weekDays = []int{}
	}
	return HabitResponse{
		ID:        h.ID,
		Title:     h.Title,
		CreatedAt: calendar.Format(h.CreatedAt),
		WeekDays:  weekDays,
	}
}

func habitsToResponses(habits []models.Habit) []HabitResponse {
	out := make([]HabitResponse, 0, len(habits))
	for _, h := range habits {
		out = append(out, habitToResponse(h))
	}
	return out
}

func dayToResponse(v models.DayView) DayResponse {
	completed := v.CompletedHabitIDs
	if completed == nil {
		completed = []string{}
	}
	return DayResponse{
		Date:            calendar.Format(v.Date),
		PossibleHabits:  habitsToResponses(v.PossibleHabits),
		CompletedHabits: completed,
	}
}

func summaryToResponse(summary []models.DaySummary) []SummaryEntry {
	out := make([]SummaryEntry, 0, len(summary))
	for _, s := range summary {
		out = append(out, SummaryEntry{
			ID:        s.ID,
			Date:      calendar.Format(s.Date),
			Completed: s.Completed,
			Possible:  s.Possible,
		})
	}
	return out
}
