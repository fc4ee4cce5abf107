package storage

import (
	"context"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// Provider is the relational store behind the habit and day stores.
// Dates passed in are calendar days; implementations normalize them anyway.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	// Migrate applies pending schema migrations and reports how many ran
	Migrate(logFn func(string)) (int, error)

	// Habits
	// CreateHabit persists the habit and its weekday schedule atomically.
	CreateHabit(ctx context.Context, habit models.Habit) error
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	GetAllHabits(ctx context.Context) ([]models.Habit, error)
	// GetPossibleHabits returns habits scheduled on day's weekday and created
	// on or before day, in creation order.
	GetPossibleHabits(ctx context.Context, day time.Time) ([]models.Habit, error)

	// Days
	// GetDay never creates a record; it returns a NotFoundError when absent.
	GetDay(ctx context.Context, date time.Time) (models.Day, error)
	// GetOrCreateDay returns the single Day for date, creating it if needed.
	GetOrCreateDay(ctx context.Context, date time.Time) (models.Day, error)
	// GetCompletedHabitIDs returns an empty slice when no Day exists for date.
	GetCompletedHabitIDs(ctx context.Context, date time.Time) ([]string, error)

	// Completions
	// ToggleCompletion removes the (day, habit) edge if present and creates
	// it otherwise. It reports whether the edge exists afterwards.
	ToggleCompletion(ctx context.Context, dayID, habitID string) (bool, error)

	// Summary
	GetSummary(ctx context.Context) ([]models.DaySummary, error)

	// Utils
	GetConfigPath() string
}
