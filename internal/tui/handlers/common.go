package handlers

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/tui/state"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/week"
)

// RefreshMsg asks the dashboard to re-read the store.
type RefreshMsg struct{}

// StoreChangedMsg reports that the store was modified outside this process.
type StoreChangedMsg struct{}

// CommitDoneMsg carries the result of an asynchronous session commit.
type CommitDoneMsg struct {
	Err error
}

// DeleteDoneMsg carries the result of an asynchronous session delete.
type DeleteDoneMsg struct {
	Err error
}

// Tick schedules the next periodic dashboard refresh.
func Tick() tea.Cmd {
	return tea.Tick(constants.DashboardRefreshInterval, func(time.Time) tea.Msg {
		return RefreshMsg{}
	})
}

// WaitForChange blocks on the store's change channel and reports the next change.
func WaitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return StoreChangedMsg{}
	}
}

// Refresh re-reads habits and settings and re-projects the week.
func Refresh(m *state.Model) {
	habits, err := m.Store.GetAllHabits()
	if err != nil {
		logger.Error("Failed to load habits", "error", err)
		m.Status = "Failed to load habits: " + err.Error()
		return
	}

	now := m.Now()
	start := time.Sunday
	if settings, err := m.Store.GetSettings(); err == nil {
		if loc, err := utils.LoadLocation(settings.Timezone); err == nil {
			now = now.In(loc)
		}
		if wd, err := week.ParseWeekStart(settings.WeekStart); err == nil {
			start = wd
		}
	}

	m.Dashboard.SetHabits(habits, week.Project(now, start), now)
}

// HandleGlobalKeys handles key presses that apply in every state.
func HandleGlobalKeys(m *state.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return true, tea.Quit
	}
	return false, nil
}
