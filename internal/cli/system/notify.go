package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/reminder"
)

var notifyNow = func(ctx *cli.Context) time.Time { return ctx.Now() }

type NotifyCmd struct {
	DryRun bool `help:"Print due reminders to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	now := notifyNow(ctx)
	bg := context.Background()

	if c.DryRun {
		due, enabled, err := reminder.NewDispatcher(ctx.Store, nil).Due(bg, now)
		if err != nil {
			return err
		}
		if !enabled {
			fmt.Println("Notifications are disabled in settings.")
			return nil
		}
		if len(due) == 0 {
			fmt.Println("No reminders due.")
		}
		for _, t := range due {
			fmt.Println("[DryRun] " + t.Message())
		}
		return nil
	}

	res, err := reminder.NewDispatcher(ctx.Store, ctx.Deliverer).Run(bg, now)
	if err != nil {
		return err
	}
	for _, t := range res.Failed {
		fmt.Printf("Failed to send reminder: %s\n", t.Message())
	}
	return nil
}

type RemindersCmd struct{}

func (c *RemindersCmd) Run(ctx *cli.Context) error {
	triggers, err := ctx.Store.GetAllTriggers()
	if err != nil {
		return fmt.Errorf("failed to get reminders: %w", err)
	}
	if len(triggers) == 0 {
		fmt.Println("No pending reminders.")
		return nil
	}

	cli.PrintTitle("Pending reminders", len(triggers), "reminder")
	cli.PrintTriggers(triggers)
	return nil
}
