package habits

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/session"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit an existing habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and cancel its reminders."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit and its pending reminders."`
}

type HabitAddCmd struct {
	Name   string `arg:"" help:"Habit name."`
	Days   string `help:"Comma-separated weekdays (mon,wed or daily, weekdays, weekends)." required:""`
	Color  string `help:"Card colour, Card-1 through Card-7." default:"Card-1"`
	Remind bool   `help:"Schedule a weekly reminder on each day."`
	Text   string `help:"Reminder text."`
	At     string `help:"Reminder time (HH:MM)." default:""`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	s := ctx.NewSession()
	if err := applyFields(s, &c.Name, &c.Days, &c.Color, &c.Remind, &c.Text, &c.At); err != nil {
		return err
	}
	if err := commit(ctx, s); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s\n", c.Name)
	return nil
}

type HabitEditCmd struct {
	Habit  string  `arg:"" help:"Habit id or name."`
	Name   *string `help:"New name."`
	Days   *string `help:"Comma-separated weekdays."`
	Color  *string `help:"Card colour."`
	Remind *bool   `help:"Turn the weekly reminder on or off."`
	Text   *string `help:"Reminder text."`
	At     *string `help:"Reminder time (HH:MM)."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	s := ctx.NewSession()
	s.LoadForEdit(habit)
	if err := applyFields(s, c.Name, c.Days, c.Color, c.Remind, c.Text, c.At); err != nil {
		return err
	}
	if err := commit(ctx, s); err != nil {
		return err
	}

	fmt.Printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes && !ctx.Confirm(fmt.Sprintf("Delete habit %q?", habit.Name)) {
		fmt.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()

	s := ctx.NewSession()
	s.LoadForEdit(habit)
	if err := s.Delete(context.Background(), ctx.Store); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	cli.PrintTitle("Habits", len(habits), "habit")
	cli.PrintHabits(habits)
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	reminder := "off"
	if habit.ReminderEnabled {
		reminder = fmt.Sprintf("%s %q", habit.ReminderTime, habit.ReminderText)
	}
	cli.PrintFields([][2]string{
		{"ID", habit.ID},
		{"Name", habit.Name},
		{"Color", string(habit.Color)},
		{"Days", strings.Join(habit.Weekdays, ", ")},
		{"Frequency", habit.Frequency()},
		{"Reminder", reminder},
		{"Added", habit.DateAdded.Local().Format("2006-01-02 15:04")},
	})

	if len(habit.NotificationIDs) == 0 {
		return nil
	}

	triggers, err := ctx.Store.GetAllTriggers()
	if err != nil {
		return fmt.Errorf("failed to get reminders: %w", err)
	}
	ids := make(map[string]bool, len(habit.NotificationIDs))
	for _, id := range habit.NotificationIDs {
		ids[id] = true
	}
	var pending []models.Trigger
	for _, t := range triggers {
		if ids[t.ID] {
			pending = append(pending, t)
		}
	}

	fmt.Println()
	cli.PrintTitle("Reminders", len(pending), "reminder")
	cli.PrintTriggers(pending)
	if len(pending) != len(habit.NotificationIDs) {
		fmt.Printf("%d reminder(s) missing, run '%s doctor'\n", len(habit.NotificationIDs)-len(pending), constants.AppName)
	}
	return nil
}

// applyFields copies the non-nil flag values into the session.
func applyFields(s *session.Session, name, days, color *string, remind *bool, text, at *string) error {
	if name != nil {
		s.SetTitle(strings.TrimSpace(*name))
	}
	if days != nil {
		weekdays, err := models.ParseWeekdays(*days)
		if err != nil {
			return err
		}
		s.SetWeekdays(weekdays)
	}
	if color != nil {
		tag, err := models.ParseColorTag(*color)
		if err != nil {
			return err
		}
		s.SetColor(tag)
	}
	if remind != nil {
		s.SetReminderEnabled(*remind)
	}
	if text != nil {
		s.SetReminderText(*text)
	}
	if at != nil && *at != "" {
		t, err := models.ParseTimeOfDay(*at)
		if err != nil {
			return err
		}
		s.SetReminderTime(t)
	}
	return nil
}

func commit(ctx *cli.Context, s *session.Session) error {
	if !s.IsReady() {
		f := s.Fields()
		switch {
		case f.Title == "":
			return fmt.Errorf("%w: habit name cannot be empty", errors.ErrValidation)
		case len(f.Weekdays) == 0:
			return fmt.Errorf("%w: at least one weekday must be selected", errors.ErrValidation)
		default:
			return fmt.Errorf("%w: reminder text is required when the reminder is on (--text)", errors.ErrValidation)
		}
	}

	bg := context.Background()
	if s.Fields().ReminderEnabled && !s.RequestNotificationAccess(bg) {
		return fmt.Errorf("%w: notifications are disabled, enable them with '%s settings --set notifications_enabled=true'", errors.ErrPermissionDenied, constants.AppName)
	}
	if err := s.Commit(bg, ctx.Store); err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}
	return nil
}
