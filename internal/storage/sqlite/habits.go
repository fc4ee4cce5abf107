package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/calendar"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
)

const habitColumns = `h.id, h.title, h.created_at, COALESCE(group_concat(w.week_day), '')`

func (s *Store) CreateHabit(ctx context.Context, habit models.Habit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO habits (id, title, created_at) VALUES (?, ?, ?)`,
		habit.ID, habit.Title, calendar.Format(habit.CreatedAt)); err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	for _, wd := range habit.WeekDays {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO habit_week_days (habit_id, week_day) VALUES (?, ?)`,
			habit.ID, wd); err != nil {
			return fmt.Errorf("failed to insert week day %d: %w", wd, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+habitColumns+`
		FROM habits h LEFT JOIN habit_week_days w ON w.habit_id = h.id
		WHERE h.id = ?
		GROUP BY h.id`, id)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("habit", id)
	}
	return h, err
}

func (s *Store) GetAllHabits(ctx context.Context) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+habitColumns+`
		FROM habits h LEFT JOIN habit_week_days w ON w.habit_id = h.id
		GROUP BY h.id
		ORDER BY h.created_at, h.rowid`)
	if err != nil {
		return nil, err
	}
	return scanHabits(rows)
}

func (s *Store) GetPossibleHabits(ctx context.Context, day time.Time) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+habitColumns+`
		FROM habits h LEFT JOIN habit_week_days w ON w.habit_id = h.id
		WHERE h.created_at <= ?
		GROUP BY h.id
		HAVING SUM(CASE WHEN w.week_day = ? THEN 1 ELSE 0 END) > 0
		ORDER BY h.created_at, h.rowid`,
		calendar.Format(day), calendar.WeekdayOf(day))
	if err != nil {
		return nil, err
	}
	return scanHabits(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var createdAt, weekDays string

	if err := row.Scan(&h.ID, &h.Title, &createdAt, &weekDays); err != nil {
		return models.Habit{}, err
	}

	var err error
	h.CreatedAt, err = calendar.Parse(createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	h.WeekDays, err = parseWeekDays(weekDays)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse week days for habit %s: %w", h.ID, err)
	}
	return h, nil
}

func scanHabits(rows *sql.Rows) ([]models.Habit, error) {
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// parseWeekDays decodes a group_concat list like "5,1,3" into sorted ints
func parseWeekDays(s string) ([]int, error) {
	days := []int{}
	if s == "" {
		return days, nil
	}
	for _, part := range strings.Split(s, ",") {
		wd, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		days = append(days, wd)
	}
	sort.Ints(days)
	return days, nil
}
