package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/tui/state"
)

// NewHabitForm creates the habit form. Reminder fields are hidden when access
// is false, and the final confirmation refuses to submit until ready reports true.
func NewHabitForm(fm *state.HabitFormModel, access bool, ready func() bool) *huh.Form {
	showToggle := reminderToggleVisible(fm, access)
	colors := make([]huh.Option[models.ColorTag], len(models.Palette))
	for i, c := range models.Palette {
		colors[i] = huh.NewOption(string(c), c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit title cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.ColorTag]().
				Title("Color").
				Options(colors...).
				Value(&fm.Color),
			huh.NewMultiSelect[string]().
				Title("Days").
				Options(huh.NewOptions(models.WeekdayNames()...)...).
				Value(&fm.Weekdays).
				Validate(func(days []string) error {
					if len(days) == 0 {
						return fmt.Errorf("select at least one day")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Remind me").
				Value(&fm.ReminderEnabled),
		).WithHideFunc(func() bool { return !showToggle }),
		huh.NewGroup(
			huh.NewInput().
				Title("Reminder text").
				Value(&fm.ReminderText).
				Validate(func(s string) error {
					if fm.ReminderEnabled && s == "" {
						return fmt.Errorf("reminder text cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Reminder time (HH:MM)").
				Value(&fm.ReminderTime).
				Validate(func(s string) error {
					if _, err := time.Parse(constants.TimeFormat, s); err != nil {
						return fmt.Errorf("invalid time format, use HH:MM")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return !access || !fm.ReminderEnabled }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save habit?").
				Affirmative("Save").
				Negative("Cancel").
				Value(&fm.Save).
				Validate(func(save bool) error {
					if !save {
						return nil
					}
					if !ready() {
						return fmt.Errorf("add a title, at least one day and reminder text")
					}
					if fm.ReminderEnabled && !access {
						return fmt.Errorf("notifications are disabled, turn off \"Remind me\" or enable notifications in settings")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// reminderToggleVisible reports whether the "Remind me" toggle is shown. It
// stays visible without access while the reminder is on, so it can be turned off.
func reminderToggleVisible(fm *state.HabitFormModel, access bool) bool {
	return access || fm.ReminderEnabled
}

// HandleEditHabitState handles the habit form. The form's values are copied
// into the session on every update. The form is submitted once, when it
// completes; until the commit result arrives every message is ignored.
func HandleEditHabitState(m *state.Model, msg tea.Msg) tea.Cmd {
	if m.Form.State != huh.StateNormal || m.Session.InFlight() {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		closeForm(m)
		return nil
	}

	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}

	m.Session.Update(func(f *session.Fields) {
		m.HabitForm.Apply(f)
	})

	switch m.Form.State {
	case huh.StateCompleted:
		return tea.Batch(cmd, finishForm(m))
	case huh.StateAborted:
		closeForm(m)
		return nil
	}
	return cmd
}

// finishForm submits a completed form, or closes it when the user chose not to save.
func finishForm(m *state.Model) tea.Cmd {
	if !m.HabitForm.Save {
		closeForm(m)
		return nil
	}
	return submit(m)
}

// HandleCommitDone returns to the dashboard on success. On failure the form
// stays open with its values so the user can fix them and resubmit.
func HandleCommitDone(m *state.Model, msg CommitDoneMsg) tea.Cmd {
	if msg.Err != nil {
		m.FormError = fmt.Sprintf("Failed to save habit: %v", msg.Err)
		m.Form.State = huh.StateNormal
		return nil
	}
	m.FormError = ""
	m.Status = "Saved " + m.HabitForm.Title
	closeForm(m)
	Refresh(m)
	return nil
}

func submit(m *state.Model) tea.Cmd {
	result := m.Session.Submit(context.Background(), m.Store)
	return func() tea.Msg {
		return CommitDoneMsg{Err: <-result}
	}
}

func closeForm(m *state.Model) {
	m.Session.Reset()
	m.Form = nil
	m.HabitForm = nil
	m.State = constants.StateDashboard
}
