package handlers

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/tui/state"
)

// HandleConfirmDeleteState handles the delete confirmation for the session's edit target.
func HandleConfirmDeleteState(m *state.Model, msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.Busy {
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Yes):
		m.Busy = true
		m.Status = "Deleting..."
		store, s := m.Store, m.Session
		return func() tea.Msg {
			return DeleteDoneMsg{Err: s.Delete(context.Background(), store)}
		}
	case key.Matches(keyMsg, m.Keys.No):
		m.Session.Reset()
		m.State = constants.StateDashboard
	}
	return nil
}

// HandleDeleteDone reports the delete result and returns to the dashboard.
func HandleDeleteDone(m *state.Model, msg DeleteDoneMsg) tea.Cmd {
	m.Busy = false
	if msg.Err != nil {
		m.Status = fmt.Sprintf("Failed to delete habit: %v", msg.Err)
	} else {
		m.Status = "Habit deleted"
	}
	m.Session.Reset()
	m.State = constants.StateDashboard
	Refresh(m)
	return nil
}
