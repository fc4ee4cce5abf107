package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitual/internal/calendar"
)

type DayCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *DayCmd) Run(ctx *Context) error {
	date, err := parseDateFlag(c.Date, ctx.Tracker.Today())
	if err != nil {
		return err
	}

	view, err := ctx.Tracker.GetDay(context.Background(), date)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("%s (%s)", calendar.Format(view.Date), view.Date.Weekday())
	fmt.Println(headerStyle.Render(header))

	if len(view.PossibleHabits) == 0 {
		fmt.Println("No habits scheduled.")
		return nil
	}

	done := 0
	for _, habit := range view.PossibleHabits {
		completed := view.IsCompleted(habit.ID)
		if completed {
			done++
		}
		fmt.Printf("  %s %s\n", checkmark(completed), habit.Title)
	}
	fmt.Printf("\n%d/%d completed\n", done, len(view.PossibleHabits))
	return nil
}
