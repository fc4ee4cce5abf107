package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tracker"
)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Service
	Config  config.Config
}

var weekdayNames = map[string]int{
	"sun":       0,
	"sunday":    0,
	"mon":       1,
	"monday":    1,
	"tue":       2,
	"tuesday":   2,
	"wed":       3,
	"wednesday": 3,
	"thu":       4,
	"thursday":  4,
	"fri":       5,
	"friday":    5,
	"sat":       6,
	"saturday":  6,
}

// ParseWeekdays parses a comma-separated list of weekday names or indices
// (0=Sunday, 6=Saturday). "daily" and "weekdays" are accepted shorthands.
func ParseWeekdays(s string) ([]int, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "":
		return nil, fmt.Errorf("no weekdays given")
	case "daily":
		return []int{0, 1, 2, 3, 4, 5, 6}, nil
	case "weekdays":
		return []int{1, 2, 3, 4, 5}, nil
	}

	var weekdays []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := weekdayNames[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || !calendar.ValidWeekDay(num) {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, num)
	}
	return weekdays, nil
}

// parseDateFlag returns today when s is empty
func parseDateFlag(s string, today time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return today, nil
	}
	return calendar.Parse(s)
}

// resolveHabit accepts a habit ID or a case-insensitive title
func resolveHabit(ctx context.Context, svc *tracker.Service, ref string) (models.Habit, error) {
	habits, err := svc.ListHabits(ctx)
	if err != nil {
		return models.Habit{}, err
	}

	if _, err := uuid.Parse(ref); err == nil {
		for _, h := range habits {
			if h.ID == ref {
				return h, nil
			}
		}
		return models.Habit{}, fmt.Errorf("habit %s not found", ref)
	}

	var matches []models.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Title, strings.TrimSpace(ref)) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q not found", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%d habits are titled %q, use the habit ID instead", len(matches), ref)
	}
}
