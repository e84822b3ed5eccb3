package handlers

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/tui/state"
)

// HandleDashboardState handles input while the habit cards are shown.
func HandleDashboardState(m *state.Model, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.Keys.Quit):
			m.Quitting = true
			return tea.Quit
		case key.Matches(msg, m.Keys.Help):
			m.Help.ShowAll = !m.Help.ShowAll
			return nil
		case key.Matches(msg, m.Keys.New):
			m.Session.Reset()
			return OpenForm(m)
		case key.Matches(msg, m.Keys.Edit):
			if h, ok := m.Dashboard.Selected(); ok {
				m.Session.LoadForEdit(h)
				return OpenForm(m)
			}
			return nil
		case key.Matches(msg, m.Keys.Delete):
			if h, ok := m.Dashboard.Selected(); ok {
				m.Session.LoadForEdit(h)
				m.State = constants.StateConfirmDelete
			}
			return nil
		}
	}

	var cmd tea.Cmd
	m.Dashboard, cmd = m.Dashboard.Update(msg)
	return cmd
}

// OpenForm asks for notification access and shows the form for the session's
// current fields.
func OpenForm(m *state.Model) tea.Cmd {
	m.Access = m.Session.RequestNotificationAccess(context.Background())
	m.HabitForm = state.NewHabitFormModel(m.Session.Fields())
	m.Form = NewHabitForm(m.HabitForm, m.Access, m.Session.IsReady)
	m.FormError = ""
	m.State = constants.StateEditHabit
	return m.Form.Init()
}
