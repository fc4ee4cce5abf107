package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/tui"
)

type HabitCmd struct {
	Add  HabitAddCmd  `cmd:"" help:"Add a new habit."`
	List HabitListCmd `cmd:"" help:"List habits."`
}

type HabitAddCmd struct {
	Title string `arg:"" optional:"" help:"Habit title. Opens a form when omitted."`
	Days  string `short:"w" help:"Comma-separated weekdays (mon,wed,fri or 1,3,5), 'daily' or 'weekdays'."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	fm := tui.HabitFormModel{Title: c.Title}

	if c.Days != "" {
		days, err := ParseWeekdays(c.Days)
		if err != nil {
			return err
		}
		fm.WeekDays = days
	}

	if strings.TrimSpace(fm.Title) == "" {
		if err := tui.NewHabitForm(&fm).Run(); err != nil {
			return err
		}
	} else if c.Days == "" {
		return fmt.Errorf("--days is required when a title is given")
	}

	habit, err := ctx.Tracker.CreateHabit(context.Background(), fm.Title, fm.WeekDays)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s)\n", habit.Title, calendar.FormatWeekDays(habit.WeekDays))
	fmt.Println(mutedStyle.Render("ID: " + habit.ID))
	return nil
}

type HabitListCmd struct {
	IDs bool `help:"Show habit IDs."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Tracker.ListHabits(context.Background())
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	fmt.Println(headerStyle.Render("Habits:"))
	for _, habit := range habits {
		fmt.Printf("  %s - %s %s\n",
			habit.Title,
			calendar.FormatWeekDays(habit.WeekDays),
			mutedStyle.Render("since "+calendar.Format(habit.CreatedAt)))
		if c.IDs {
			fmt.Printf("      %s\n", mutedStyle.Render(habit.ID))
		}
	}
	return nil
}
