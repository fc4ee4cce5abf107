// Package calendar canonicalizes timestamps to UTC calendar days.
//
// Every date that reaches storage or the summary query goes through Normalize,
// so the weekday derived here always agrees with the weekday the database
// derives from the persisted YYYY-MM-DD text.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// Normalize converts t to UTC and truncates it to midnight.
func Normalize(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekdayOf returns the weekday index of day, Sunday=0.
func WeekdayOf(day time.Time) int {
	return int(Normalize(day).Weekday())
}

// Today returns the current calendar day according to clock.
func Today(clock func() time.Time) time.Time {
	if clock == nil {
		clock = time.Now
	}
	return Normalize(clock())
}

// Format renders day in the canonical YYYY-MM-DD form.
func Format(day time.Time) string {
	return Normalize(day).Format(constants.DateFormat)
}

// Parse accepts a YYYY-MM-DD date or an RFC3339 timestamp and returns the
// normalized calendar day.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty")
	}
	if t, err := time.Parse(constants.DateFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return Normalize(t), nil
}

// ValidWeekDay reports whether w is a weekday index in 0..6.
func ValidWeekDay(w int) bool {
	return w >= constants.MinWeekDay && w <= constants.MaxWeekDay
}

// FormatWeekDays renders a schedule as "Mon,Wed,Fri", "daily" or "never".
func FormatWeekDays(days []int) string {
	if len(days) == 0 {
		return "never"
	}
	sorted := append([]int(nil), days...)
	sort.Ints(sorted)
	names := make([]string, 0, len(sorted))
	for i, d := range sorted {
		if i > 0 && sorted[i-1] == d {
			continue
		}
		names = append(names, time.Weekday(d).String()[:3])
	}
	if len(names) == 7 {
		return "daily"
	}
	return strings.Join(names, ",")
}
