package sqlite

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/models"
)

// GetSummary derives both counts per day at query time. strftime('%w')
// yields Sunday=0, the same convention as calendar.WeekdayOf.
func (s *Store) GetSummary(ctx context.Context) ([]models.DaySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			d.id,
			d.date,
			(
				SELECT count(*)
				FROM day_habits dh
				WHERE dh.day_id = d.id
			) AS completed,
			(
				SELECT count(*)
				FROM habit_week_days w
				JOIN habits h ON h.id = w.habit_id
				WHERE w.week_day = CAST(strftime('%w', d.date) AS INTEGER)
				  AND h.created_at <= d.date
			) AS possible
		FROM days d
		ORDER BY d.date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := []models.DaySummary{}
	for rows.Next() {
		var row models.DaySummary
		var date string
		if err := rows.Scan(&row.ID, &date, &row.Completed, &row.Possible); err != nil {
			return nil, err
		}
		row.Date, err = calendar.Parse(date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date for day %s: %w", row.ID, err)
		}
		summary = append(summary, row)
	}
	return summary, rows.Err()
}
