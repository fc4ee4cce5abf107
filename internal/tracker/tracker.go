// Package tracker implements habit scheduling and completion on top of a
// storage.Provider: habit creation, day views, the completion toggle and the
// per-day summary.
package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/habitual/internal/calendar"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// SummaryCache stores the most recent summary. A miss is (nil, false, nil).
type SummaryCache interface {
	GetSummary(ctx context.Context) ([]models.DaySummary, bool, error)
	SetSummary(ctx context.Context, summary []models.DaySummary) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	store storage.Provider
	clock func() time.Time
	cache SummaryCache
	sf    singleflight.Group
}

type Option func(*Service)

// WithClock replaces time.Now as the source of "today"
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithCache enables read-through caching of Summary. A nil cache disables it.
func WithCache(c SummaryCache) Option {
	return func(s *Service) { s.cache = c }
}

func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{store: store, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the calendar day the service binds toggles to
func (s *Service) Today() time.Time {
	return calendar.Today(s.clock)
}

// CreateHabit validates and persists a new habit created today.
// Duplicate weekdays are collapsed.
func (s *Service) CreateHabit(ctx context.Context, title string, weekDays []int) (models.Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Habit{}, apperrors.Validation("title", "title cannot be empty")
	}

	seen := make(map[int]bool, len(weekDays))
	days := make([]int, 0, len(weekDays))
	for _, wd := range weekDays {
		if !calendar.ValidWeekDay(wd) {
			return models.Habit{}, apperrors.Validation("weekDays", "week day %d out of range 0..6", wd)
		}
		if !seen[wd] {
			seen[wd] = true
			days = append(days, wd)
		}
	}

	habit := models.Habit{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: s.Today(),
		WeekDays:  days,
	}
	if err := s.store.CreateHabit(ctx, habit); err != nil {
		return models.Habit{}, apperrors.Persistence("create habit", err)
	}

	logger.Info("Created habit", "id", habit.ID, "title", habit.Title, "weekDays", habit.WeekDays)
	s.invalidate(ctx)
	return habit, nil
}

func (s *Service) ListHabits(ctx context.Context) ([]models.Habit, error) {
	habits, err := s.store.GetAllHabits(ctx)
	if err != nil {
		return nil, apperrors.Persistence("list habits", err)
	}
	return habits, nil
}

// GetDay reports which habits were due on date and which of them were done.
// It never creates a Day record.
func (s *Service) GetDay(ctx context.Context, date time.Time) (models.DayView, error) {
	day := calendar.Normalize(date)

	possible, err := s.store.GetPossibleHabits(ctx, day)
	if err != nil {
		return models.DayView{}, apperrors.Persistence("get possible habits", err)
	}
	completed, err := s.store.GetCompletedHabitIDs(ctx, day)
	if err != nil {
		return models.DayView{}, apperrors.Persistence("get completed habits", err)
	}

	return models.DayView{
		Date:              day,
		PossibleHabits:    possible,
		CompletedHabitIDs: completed,
	}, nil
}

// Toggle flips the completion of habitID for today
func (s *Service) Toggle(ctx context.Context, habitID string) (models.CompletionState, error) {
	return s.ToggleOn(ctx, s.Today(), habitID)
}

// ToggleOn flips the completion of habitID on date. The habit does not have
// to be scheduled on that day. Any form uuid.Parse accepts is reduced to the
// canonical lowercase hyphenated id before it reaches the store.
func (s *Service) ToggleOn(ctx context.Context, date time.Time, habitID string) (models.CompletionState, error) {
	parsed, err := uuid.Parse(habitID)
	if err != nil {
		return models.Incomplete, apperrors.Validation("id", "invalid habit id %q", habitID)
	}
	habitID = parsed.String()
	if _, err := s.store.GetHabit(ctx, habitID); err != nil {
		return models.Incomplete, apperrors.Persistence("get habit", err)
	}

	day, err := s.store.GetOrCreateDay(ctx, date)
	if err != nil {
		return models.Incomplete, apperrors.Persistence("get or create day", err)
	}

	completed, err := s.store.ToggleCompletion(ctx, day.ID, habitID)
	if err != nil {
		return models.Incomplete, apperrors.Persistence("toggle completion", err)
	}

	state := models.Incomplete
	if completed {
		state = models.Complete
	}
	logger.Debug("Toggled habit", "habit", habitID, "date", calendar.Format(day.Date), "state", state)
	s.invalidate(ctx)
	return state, nil
}

// Summary returns one entry per materialized day, ordered by date
func (s *Service) Summary(ctx context.Context) ([]models.DaySummary, error) {
	if s.cache == nil {
		return s.loadSummary(ctx)
	}

	// the shared load outlives any single caller; each caller still honors
	// its own cancellation
	shared := context.WithoutCancel(ctx)
	ch := s.sf.DoChan("summary", func() (interface{}, error) {
		if summary, ok, err := s.cache.GetSummary(shared); err != nil {
			logger.Warn("Summary cache read failed", "error", err)
		} else if ok {
			return summary, nil
		}

		summary, err := s.loadSummary(shared)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetSummary(shared, summary); err != nil {
			logger.Warn("Summary cache write failed", "error", err)
		}
		return summary, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.DaySummary), nil
	}
}

func (s *Service) loadSummary(ctx context.Context) ([]models.DaySummary, error) {
	summary, err := s.store.GetSummary(ctx)
	if err != nil {
		return nil, apperrors.Persistence("get summary", err)
	}
	return summary, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("Summary cache invalidation failed", "error", err)
	}
}
