package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
)

// HabitFormModel holds the values bound to the add-habit form
type HabitFormModel struct {
	Title    string
	WeekDays []int
}

// NewHabitForm creates a form asking for a title and a weekday schedule
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	options := make([]huh.Option[int], 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		options = append(options, huh.NewOption(d.String(), int(d)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit title cannot be empty")
					}
					return nil
				}),
			huh.NewMultiSelect[int]().
				Title("Week Days").
				Options(options...).
				Value(&fm.WeekDays),
		),
	).WithTheme(huh.ThemeDracula())
}
