package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/reminder"
	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/utils"
)

type Context struct {
	Store     storage.Provider
	Reminders *reminder.Scheduler
	Deliverer reminder.Deliverer

	// In is read for confirmation prompts; os.Stdin when nil.
	In io.Reader
}

// NewContext wires the reminder scheduler and tray notifier to store.
func NewContext(store storage.Provider) *Context {
	return &Context{
		Store:     store,
		Reminders: reminder.NewScheduler(reminder.NewStoreCenter(store)),
		Deliverer: notifier.New(),
	}
}

// NewSession returns an empty edit session bound to the context's scheduler.
func (c *Context) NewSession() *session.Session {
	return session.New(c.Reminders)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors.
// Only file-backed SQLite stores are backed up.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Now returns the current time in the timezone from the user's settings.
func (c *Context) Now() time.Time {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return time.Now()
	}
	now, err := utils.NowFromSettings(settings)
	if err != nil {
		logger.Warn("Falling back to local time", "timezone", settings.Timezone, "error", err)
		return time.Now()
	}
	return now
}

// FindHabit resolves ref as a habit id, then as a case-insensitive name.
func (c *Context) FindHabit(ref string) (models.Habit, error) {
	if h, err := c.Store.GetHabit(ref); err == nil {
		return h, nil
	}

	habits, err := c.Store.GetAllHabits()
	if err != nil {
		return models.Habit{}, err
	}
	var matches []models.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) || strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q not found", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%q matches %d habits, use the habit id", ref, len(matches))
	}
}

// Confirm prints prompt and reports whether the user answered yes.
func (c *Context) Confirm(prompt string) bool {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// FormatWeekdays abbreviates weekday names, e.g. "Mon,Wed,Fri".
func FormatWeekdays(names []string) string {
	if len(names) == 7 {
		return "daily"
	}
	short := make([]string, 0, len(names))
	for _, name := range names {
		if len(name) > 3 {
			name = name[:3]
		}
		short = append(short, name)
	}
	return strings.Join(short, ",")
}
