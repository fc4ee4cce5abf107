package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/models"
)

type ToggleCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ToggleCmd) Run(ctx *Context) error {
	date, err := parseDateFlag(c.Date, ctx.Tracker.Today())
	if err != nil {
		return err
	}

	bg := context.Background()
	habit, err := resolveHabit(bg, ctx.Tracker, c.Habit)
	if err != nil {
		return err
	}

	state, err := ctx.Tracker.ToggleOn(bg, date, habit.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s on %s\n", checkmark(state == models.Complete), habit.Title, calendar.Format(date))
	if !habit.PossibleOn(calendar.Normalize(date)) {
		fmt.Println(mutedStyle.Render("Note: habit is not scheduled on this day"))
	}
	return nil
}
