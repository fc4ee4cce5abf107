package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pq "github.com/lib/pq"

	"github.com/julianstephens/habitual/internal/calendar"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
)

// foreign_key_violation
const pqForeignKeyViolation = pq.ErrorCode("23503")

const selectDay = `SELECT id, to_char(date, 'YYYY-MM-DD') FROM days WHERE date = $1::date`

func (s *Store) GetDay(ctx context.Context, date time.Time) (models.Day, error) {
	day := calendar.Format(date)

	d, err := scanDay(s.db.QueryRowContext(ctx, selectDay, day))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Day{}, apperrors.NotFound("day", day)
	}
	return d, err
}

func (s *Store) GetOrCreateDay(ctx context.Context, date time.Time) (models.Day, error) {
	day := calendar.Format(date)

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO days (id, date) VALUES ($1, $2::date)
		ON CONFLICT (date) DO NOTHING`,
		uuid.New().String(), day); err != nil {
		return models.Day{}, fmt.Errorf("failed to create day %s: %w", day, err)
	}

	return scanDay(s.db.QueryRowContext(ctx, selectDay, day))
}

func (s *Store) GetCompletedHabitIDs(ctx context.Context, date time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dh.habit_id
		FROM day_habits dh JOIN days d ON d.id = dh.day_id
		WHERE d.date = $1::date
		ORDER BY dh.seq`, calendar.Format(date))
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

// ToggleCompletion locks the day row so concurrent toggles of the same day
// apply one after another.
func (s *Store) ToggleCompletion(ctx context.Context, dayID, habitID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var locked string
	err = tx.QueryRowContext(ctx, `SELECT id FROM days WHERE id = $1 FOR UPDATE`, dayID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, apperrors.NotFound("day", dayID)
	}
	if err != nil {
		return false, err
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM day_habits WHERE day_id = $1 AND habit_id = $2`, dayID, habitID)
	if err != nil {
		return false, err
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if removed == 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO day_habits (id, day_id, habit_id) VALUES ($1, $2, $3)`,
			uuid.New().String(), dayID, habitID); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
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
