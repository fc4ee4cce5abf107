package postgres

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

const habitColumns = `h.id, h.title, to_char(h.created_at, 'YYYY-MM-DD'),
	COALESCE(string_agg(w.week_day::text, ',' ORDER BY w.week_day), '')`

func (s *Store) CreateHabit(ctx context.Context, habit models.Habit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO habits (id, title, created_at) VALUES ($1, $2, $3)`,
		habit.ID, habit.Title, calendar.Format(habit.CreatedAt)); err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	for _, wd := range habit.WeekDays {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO habit_week_days (habit_id, week_day) VALUES ($1, $2)`,
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
		WHERE h.id = $1
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
		ORDER BY h.created_at, h.seq`)
	if err != nil {
		return nil, err
	}
	return scanHabits(rows)
}

func (s *Store) GetPossibleHabits(ctx context.Context, day time.Time) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+habitColumns+`
		FROM habits h LEFT JOIN habit_week_days w ON w.habit_id = h.id
		WHERE h.created_at <= $1::date
		GROUP BY h.id
		HAVING COALESCE(bool_or(w.week_day = $2), false)
		ORDER BY h.created_at, h.seq`,
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

func parseWeekDays(s string) ([]int, error) {
	days := []int{}
	if s == "" {
		return days, nil
	}
	for _, part := range strings.Split(s, ",") {
		wd, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		days = append(days, wd)
	}
	sort.Ints(days)
	return days, nil
}
