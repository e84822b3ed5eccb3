// Package dashboard lists habits as cards with the current week.
package dashboard

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/components/card"
	"github.com/julianstephens/habitual/internal/week"
)

type Item struct {
	Habit models.Habit
}

func (i Item) FilterValue() string { return i.Habit.Name }

// delegate renders each item as a habit card.
type delegate struct {
	days  []week.Day
	today time.Time
}

func (d delegate) Height() int                             { return card.Height }
func (d delegate) Spacing() int                            { return 0 }
func (d delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(Item)
	if !ok {
		return
	}
	_, _ = io.WriteString(w, card.Render(i.Habit, d.days, d.today, m.Width(), index == m.Index()))
}

type Model struct {
	list list.Model
}

func New(width, height int) Model {
	l := list.New(nil, delegate{}, width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit = key.NewBinding(key.WithDisabled())
	return Model{list: l}
}

// SetHabits replaces the cards and the week they are drawn against.
func (m *Model) SetHabits(habits []models.Habit, days []week.Day, today time.Time) {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h}
	}
	m.list.SetDelegate(delegate{days: days, today: today})
	m.list.SetItems(items)
}

// Selected returns the habit under the cursor.
func (m Model) Selected() (models.Habit, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Habit{}, false
	}
	return i.Habit, true
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No habits yet.\n  Press 'n' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
