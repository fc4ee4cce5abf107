package cli

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitual/internal/calendar"
	tuisummary "github.com/julianstephens/habitual/internal/tui/components/summary"
)

type SummaryCmd struct{}

func (c *SummaryCmd) Run(ctx *Context) error {
	summary, err := ctx.Tracker.Summary(context.Background())
	if err != nil {
		return err
	}

	if len(summary) == 0 {
		fmt.Println("No tracked days yet.")
		return nil
	}

	fmt.Println(headerStyle.Render("Summary:"))
	for _, day := range summary {
		fmt.Printf("  %s %s  %s %d/%d\n",
			calendar.Format(day.Date),
			day.Date.Weekday().String()[:3],
			tuisummary.Bar(day.Completed, day.Possible),
			day.Completed, day.Possible)
	}
	return nil
}
