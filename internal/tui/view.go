package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
)

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var content string
	switch m.State {
	case constants.StateDashboard:
		content = docStyle.Render(m.Dashboard.View())
	case constants.StateEditHabit:
		content = m.viewForm()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	status := ""
	if m.Status != "" {
		status = statusStyle.Render(m.Status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		status,
		m.Help.View(m),
	)
}

func (m Model) viewHeader() string {
	title := "Habits"
	switch m.State {
	case constants.StateEditHabit:
		title = "New Habit"
		if h, ok := m.Session.Editing(); ok {
			title = "Edit " + h.Name
		}
	case constants.StateConfirmDelete:
		title = "Delete Habit"
	}
	return headerStyle.Render(fmt.Sprintf("%s  %s", constants.AppName, title))
}

func (m Model) viewForm() string {
	if m.Form == nil {
		return ""
	}
	parts := []string{m.Form.View()}
	if !m.Access {
		parts = append(parts, warningStyle.Render("Notifications are off, reminders are unavailable."))
	}
	if m.Session.InFlight() {
		parts = append(parts, warningStyle.Render("Saving..."))
	}
	if m.FormError != "" {
		parts = append(parts, dangerStyle.Render(m.FormError))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewConfirmDelete() string {
	name := ""
	if h, ok := m.Session.Editing(); ok {
		name = h.Name
	}
	return lipgloss.Place(m.Width, m.Height-chromeHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and cancel its reminders?", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
