// Package card renders a habit as a dashboard card.
package card

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/week"
)

// Height is the number of terminal rows a rendered card occupies.
const Height = 5

var palette = map[models.ColorTag]lipgloss.Color{
	models.ColorCard1: lipgloss.Color("#7AA2F7"),
	models.ColorCard2: lipgloss.Color("#9ECE6A"),
	models.ColorCard3: lipgloss.Color("#E0AF68"),
	models.ColorCard4: lipgloss.Color("#F7768E"),
	models.ColorCard5: lipgloss.Color("#BB9AF7"),
	models.ColorCard6: lipgloss.Color("#2AC3DE"),
	models.ColorCard7: lipgloss.Color("#FF9E64"),
}

var (
	nameStyle      = lipgloss.NewStyle().Bold(true)
	frequencyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	emptyDayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
)

// Color returns the display colour for tag, falling back to the default card colour.
func Color(tag models.ColorTag) lipgloss.Color {
	if c, ok := palette[tag]; ok {
		return c
	}
	return palette[models.DefaultColor]
}

// Render draws h as a bordered card: name with a bell when reminders are on,
// the frequency label, and the week row with active days filled in the
// habit's colour. today is underlined.
func Render(h models.Habit, days []week.Day, today time.Time, width int, selected bool) string {
	color := Color(h.Color)

	name := h.Name
	// border, padding and the bell
	if limit := width - 8; limit > 0 {
		name = truncate.StringWithTail(name, uint(limit), "…")
	}
	title := nameStyle.Render(name)
	if h.ReminderEnabled {
		title += " 🔔"
	}

	active := week.Active(h, days)
	cells := make([]string, len(days))
	for i, d := range days {
		style := emptyDayStyle
		if active[i] {
			style = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(color).
				Padding(0, 1)
		}
		if sameDay(d.Date, today) {
			style = style.Underline(true).Bold(true)
		}
		cells[i] = style.Render(d.Short())
	}

	body := strings.Join([]string{
		title,
		frequencyStyle.Render(h.Frequency()),
		lipgloss.JoinHorizontal(lipgloss.Top, cells...),
	}, "\n")

	border := lipgloss.RoundedBorder()
	if selected {
		border = lipgloss.ThickBorder()
	}
	style := lipgloss.NewStyle().
		Border(border).
		BorderForeground(color).
		Padding(0, 1)
	if width > 4 {
		style = style.Width(width - 2)
	}
	if !selected {
		style = style.BorderForeground(lipgloss.Color("238"))
	}
	return style.Render(body)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}
