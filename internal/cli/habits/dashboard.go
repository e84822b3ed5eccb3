package habits

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/tui/components/card"
	"github.com/julianstephens/habitual/internal/week"
)

type DashboardCmd struct {
	Width int `help:"Card width." default:"44"`
}

func (c *DashboardCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	start, err := week.ParseWeekStart(settings.WeekStart)
	if err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}

	today := ctx.Now()
	days := week.Project(today, start)
	fmt.Printf("Week of %s\n", days[0].Date.Format("Mon Jan 2"))

	if len(habits) == 0 {
		fmt.Println("No habits yet. Add one with 'habit add'.")
		return nil
	}
	for _, h := range habits {
		fmt.Println(card.Render(h, days, today, c.Width, true))
	}
	return nil
}
