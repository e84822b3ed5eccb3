package state

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tui/components/dashboard"
)

// HabitFormModel holds the values bound to the habit form's fields.
type HabitFormModel struct {
	Title           string
	Color           models.ColorTag
	Weekdays        []string
	ReminderEnabled bool
	ReminderText    string
	ReminderTime    string
	Save            bool
}

// NewHabitFormModel copies the session's fields into form values.
func NewHabitFormModel(f session.Fields) *HabitFormModel {
	return &HabitFormModel{
		Title:           f.Title,
		Color:           f.Color,
		Weekdays:        f.Weekdays,
		ReminderEnabled: f.ReminderEnabled,
		ReminderText:    f.ReminderText,
		ReminderTime:    f.ReminderTime.String(),
		Save:            true,
	}
}

// Apply writes the form values into f. An unparsable time leaves f's time unchanged.
func (fm *HabitFormModel) Apply(f *session.Fields) {
	f.Title = fm.Title
	f.Color = fm.Color
	f.Weekdays = append([]string(nil), fm.Weekdays...)
	f.ReminderEnabled = fm.ReminderEnabled
	f.ReminderText = fm.ReminderText
	if t, err := models.ParseTimeOfDay(fm.ReminderTime); err == nil {
		f.ReminderTime = t
	}
}

// Model represents the shared state for the TUI
type Model struct {
	Store     storage.Provider
	Session   *session.Session
	State     constants.SessionState
	Keys      KeyMap
	Help      help.Model
	Dashboard dashboard.Model
	Form      *huh.Form
	HabitForm *HabitFormModel
	// Access is whether the user granted notification access when the form opened.
	Access bool
	// Changes signals external store modifications; nil when the store cannot be watched.
	Changes   <-chan struct{}
	Now       func() time.Time
	// Busy is set while a delete is running.
	Busy      bool
	Quitting  bool
	Width     int
	Height    int
	Status    string
	FormError string // Error message to display for form operations
}

// New creates a new state Model
func New(store storage.Provider, reminders session.Reminders, changes <-chan struct{}) Model {
	return Model{
		Store:     store,
		Session:   session.New(reminders),
		State:     constants.StateDashboard,
		Keys:      DefaultKeyMap(),
		Help:      help.New(),
		Dashboard: dashboard.New(0, 0),
		Changes:   changes,
		Now:       time.Now,
	}
}
