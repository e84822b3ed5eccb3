package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tui/handlers"
	"github.com/julianstephens/habitual/internal/tui/state"
)

type Model struct {
	state.Model
}

// NewModel builds the dashboard for store. changes may be nil when the store
// cannot report external modifications.
func NewModel(store storage.Provider, reminders session.Reminders, changes <-chan struct{}) Model {
	m := Model{Model: state.New(store, reminders, changes)}
	handlers.Refresh(&m.Model)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(handlers.Tick(), handlers.WaitForChange(m.Changes))
}

func (m Model) ShortHelp() []key.Binding {
	switch m.State {
	case constants.StateConfirmDelete:
		return []key.Binding{m.Keys.Yes, m.Keys.No}
	case constants.StateEditHabit:
		return []key.Binding{m.Keys.Back}
	}
	return []key.Binding{m.Keys.New, m.Keys.Edit, m.Keys.Delete, m.Keys.Quit, m.Keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	navigation := []key.Binding{m.Keys.Up, m.Keys.Down}
	actions := []key.Binding{m.Keys.New, m.Keys.Edit, m.Keys.Delete}
	global := []key.Binding{m.Keys.Help, m.Keys.Quit}
	return [][]key.Binding{navigation, actions, global}
}
