package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/calendar"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
)

func (s *Store) GetDay(ctx context.Context, date time.Time) (models.Day, error) {
	day := calendar.Format(date)
	row := s.db.QueryRowContext(ctx, `SELECT id, date FROM days WHERE date = ?`, day)

	d, err := scanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Day{}, apperrors.NotFound("day", day)
	}
	return d, err
}

// GetOrCreateDay inserts the day unless the UNIQUE(date) constraint already
// holds a row for it, then reads back whichever row won.
func (s *Store) GetOrCreateDay(ctx context.Context, date time.Time) (models.Day, error) {
	day := calendar.Format(date)

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO days (id, date) VALUES (?, ?)
		ON CONFLICT(date) DO NOTHING`,
		uuid.New().String(), day); err != nil {
		return models.Day{}, fmt.Errorf("failed to create day %s: %w", day, err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, date FROM days WHERE date = ?`, day)
	return scanDay(row)
}

func (s *Store) GetCompletedHabitIDs(ctx context.Context, date time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dh.habit_id
		FROM day_habits dh JOIN days d ON d.id = dh.day_id
		WHERE d.date = ?
		ORDER BY dh.rowid`, calendar.Format(date))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) ToggleCompletion(ctx context.Context, dayID, habitID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM day_habits WHERE day_id = ? AND habit_id = ?`, dayID, habitID)
	if err != nil {
		return false, err
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if removed == 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO day_habits (id, day_id, habit_id) VALUES (?, ?, ?)`,
			uuid.New().String(), dayID, habitID); err != nil {
			if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
				return false, apperrors.NotFound("habit", habitID)
			}
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return removed == 0, nil
}

func scanDay(row scanner) (models.Day, error) {
	var d models.Day
	var date string
	if err := row.Scan(&d.ID, &date); err != nil {
		return models.Day{}, err
	}
	parsed, err := calendar.Parse(date)
	if err != nil {
		return models.Day{}, fmt.Errorf("failed to parse date for day %s: %w", d.ID, err)
	}
	d.Date = parsed
	return d, nil
}
