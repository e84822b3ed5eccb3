package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/tui/handlers"
)

const chromeHeight = 4

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.Dashboard.SetSize(msg.Width-4, msg.Height-chromeHeight)
		if m.Form != nil {
			m.Form = m.Form.WithWidth(msg.Width - 4)
		}
		return m, nil

	case handlers.RefreshMsg:
		handlers.Refresh(&m.Model)
		return m, handlers.Tick()

	case handlers.StoreChangedMsg:
		handlers.Refresh(&m.Model)
		return m, handlers.WaitForChange(m.Changes)

	case handlers.CommitDoneMsg:
		return m, handlers.HandleCommitDone(&m.Model, msg)

	case handlers.DeleteDoneMsg:
		return m, handlers.HandleDeleteDone(&m.Model, msg)

	case tea.KeyMsg:
		if handled, cmd := handlers.HandleGlobalKeys(&m.Model, msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.State {
	case constants.StateDashboard:
		cmd = handlers.HandleDashboardState(&m.Model, msg)
	case constants.StateEditHabit:
		cmd = handlers.HandleEditHabitState(&m.Model, msg)
	case constants.StateConfirmDelete:
		cmd = handlers.HandleConfirmDeleteState(&m.Model, msg)
	}
	return m, cmd
}
