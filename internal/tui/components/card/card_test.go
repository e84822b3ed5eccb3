package card

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/week"
)

func TestRender(t *testing.T) {
	today := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	days := week.Project(today, time.Sunday)
	h := models.Habit{
		Name:            "Read",
		Color:           models.ColorCard2,
		Weekdays:        []string{"Monday", "Wednesday"},
		ReminderEnabled: true,
	}

	out := Render(h, days, today, 40, true)
	for _, want := range []string{"Read", "🔔", "2 times a week", "Sun", "Sat"} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}
	if got := lipgloss.Height(out); got != Height {
		t.Errorf("card height = %d, want %d", got, Height)
	}

	h.ReminderEnabled = false
	if strings.Contains(Render(h, days, today, 40, false), "🔔") {
		t.Error("bell shown without reminders")
	}
}

func TestRenderTruncatesLongNames(t *testing.T) {
	today := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	h := models.Habit{Name: strings.Repeat("Meditate ", 10), Weekdays: []string{"Monday"}}

	out := Render(h, week.Project(today, time.Sunday), today, 40, false)
	if !strings.Contains(out, "…") {
		t.Errorf("expected long name to be truncated:\n%s", out)
	}
	if got := lipgloss.Height(out); got != Height {
		t.Errorf("card height = %d, want %d", got, Height)
	}
}

func TestColorFallback(t *testing.T) {
	if Color("Card-99") != Color(models.DefaultColor) {
		t.Error("unknown tag should fall back to the default colour")
	}
	if Color(models.ColorCard4) == Color(models.ColorCard5) {
		t.Error("palette colours should differ")
	}
}
