package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/models"
)

var (
	headerColor = color.New(color.Bold, color.Underline)
	faintColor  = color.New(color.Faint)
	idColor     = color.New(color.FgHiYellow, color.Faint)
)

// PrintTitle prints a bold underlined heading followed by a faint count.
func PrintTitle(title string, count int, noun string) {
	_, _ = headerColor.Print(title)
	if count != 1 {
		noun += "s"
	}
	_, _ = faintColor.Printf(" - %d %s\n", count, noun)
}

// PrintHabits prints one row per habit: id, name, days, reminder.
func PrintHabits(habits []models.Habit) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40

	for _, h := range habits {
		reminder := "-"
		if h.ReminderEnabled {
			reminder = fmt.Sprintf("🔔 %s %q", h.ReminderTime, h.ReminderText)
		}
		tbl.AddRow(idColor.Sprint(shortID(h.ID)), h.Name, FormatWeekdays(h.Weekdays), reminder)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// PrintTriggers prints one row per pending trigger.
func PrintTriggers(triggers []models.Trigger) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 50

	for _, t := range triggers {
		last := "never"
		if t.LastFiredAt != nil {
			last = t.LastFiredAt.Local().Format("2006-01-02 15:04")
		}
		tbl.AddRow(idColor.Sprint(shortID(t.ID)), t.Describe(), t.Message(), faintColor.Sprint("last: "+last))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// PrintBackups prints one row per backup file, newest first.
func PrintBackups(backups []backup.BackupInfo) {
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, b := range backups {
		tbl.AddRow(b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), faintColor.Sprintf("%.1f KB", float64(b.Size)/1024.0))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// PrintFields prints aligned label/value pairs.
func PrintFields(rows [][2]string) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	for _, r := range rows {
		tbl.AddRow(faintColor.Sprint(r[0]+":"), r[1])
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
