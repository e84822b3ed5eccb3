// Package session holds the state of a habit being created or edited and
// commits it to the record store and the reminder scheduler together.
package session

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

var (
	nowFunc   = time.Now
	newIDFunc = uuid.NewString
)

// Reminders schedules the weekly triggers behind a habit's reminder.
// It is implemented by reminder.Scheduler.
type Reminders interface {
	RequestAccess(ctx context.Context) bool
	Register(ctx context.Context, weekdays []string, at models.TimeOfDay, title, body string) ([]string, error)
	Cancel(ctx context.Context, ids []string)
	Reinstate(ctx context.Context, habit models.Habit) error
}

// Store is the part of storage.Provider a commit writes through.
type Store interface {
	Begin() (storage.Tx, error)
}

// Fields are the user-editable values of a session.
type Fields struct {
	Title           string
	Color           models.ColorTag
	Weekdays        []string
	ReminderEnabled bool
	ReminderText    string
	ReminderTime    models.TimeOfDay
}

// Ready reports whether the fields can be committed: a title, at least one
// weekday, and reminder text when the reminder is on.
func (f Fields) Ready() bool {
	if f.Title == "" || len(f.Weekdays) == 0 {
		return false
	}
	if f.ReminderEnabled && f.ReminderText == "" {
		return false
	}
	return true
}

func (f Fields) clone() Fields {
	f.Weekdays = slices.Clone(f.Weekdays)
	return f
}

func defaultFields() Fields {
	return Fields{
		Color:        models.DefaultColor,
		ReminderTime: models.TimeOfDayFrom(nowFunc()),
	}
}

type Session struct {
	reminders Reminders

	mu       sync.Mutex
	fields   Fields
	editing  *models.Habit
	access   bool
	onChange func()

	inFlight atomic.Bool
}

// New returns an empty session in create mode.
func New(reminders Reminders) *Session {
	return &Session{
		reminders: reminders,
		fields:    defaultFields(),
	}
}

// OnChange registers fn to be called after every mutation of the session.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) changed() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Fields returns a copy of the current field values.
func (s *Session) Fields() Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields.clone()
}

// Update applies fn to the session's fields.
func (s *Session) Update(fn func(*Fields)) {
	s.mu.Lock()
	fn(&s.fields)
	s.mu.Unlock()
	s.changed()
}

func (s *Session) SetTitle(title string) {
	s.Update(func(f *Fields) { f.Title = title })
}

func (s *Session) SetColor(c models.ColorTag) {
	s.Update(func(f *Fields) { f.Color = c })
}

// SetWeekdays replaces the selected weekdays. Repeated names are kept once,
// in first-seen order.
func (s *Session) SetWeekdays(names []string) {
	days := uniqueWeekdays(names)
	s.Update(func(f *Fields) { f.Weekdays = days })
}

func uniqueWeekdays(names []string) []string {
	days := make([]string, 0, len(names))
	for _, name := range names {
		if !slices.Contains(days, name) {
			days = append(days, name)
		}
	}
	return days
}

// ToggleWeekday adds name to the selected weekdays, or removes it if present.
func (s *Session) ToggleWeekday(name string) {
	s.Update(func(f *Fields) {
		if i := slices.Index(f.Weekdays, name); i >= 0 {
			f.Weekdays = slices.Delete(f.Weekdays, i, i+1)
			return
		}
		f.Weekdays = append(f.Weekdays, name)
	})
}

func (s *Session) SetReminderEnabled(on bool) {
	s.Update(func(f *Fields) { f.ReminderEnabled = on })
}

func (s *Session) SetReminderText(text string) {
	s.Update(func(f *Fields) { f.ReminderText = text })
}

func (s *Session) SetReminderTime(t models.TimeOfDay) {
	s.Update(func(f *Fields) { f.ReminderTime = t })
}

// IsReady reports whether the session can be committed.
func (s *Session) IsReady() bool {
	return s.Fields().Ready()
}

// RequestNotificationAccess asks for reminder permission and records the answer.
func (s *Session) RequestNotificationAccess(ctx context.Context) bool {
	granted := s.reminders.RequestAccess(ctx)
	s.mu.Lock()
	s.access = granted
	s.mu.Unlock()
	s.changed()
	return granted
}

// NotificationAccess reports the last permission answer.
func (s *Session) NotificationAccess() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

// Editing returns the habit being edited, if any.
func (s *Session) Editing() (models.Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return models.Habit{}, false
	}
	return s.editing.Clone(), true
}

// LoadForEdit copies h into the session and switches it to edit mode.
func (s *Session) LoadForEdit(h models.Habit) {
	s.mu.Lock()
	edit := h.Clone()
	s.editing = &edit
	s.fields = Fields{
		Title:           h.Name,
		Color:           h.Color,
		Weekdays:        slices.Clone(h.Weekdays),
		ReminderEnabled: h.ReminderEnabled,
		ReminderText:    h.ReminderText,
		ReminderTime:    h.ReminderTime,
	}
	if !s.fields.Color.Valid() {
		s.fields.Color = models.DefaultColor
	}
	s.mu.Unlock()
	s.changed()
}

// Reset restores the defaults and leaves edit mode.
func (s *Session) Reset() {
	s.mu.Lock()
	s.fields = defaultFields()
	s.editing = nil
	s.mu.Unlock()
	s.changed()
}

// InFlight reports whether a commit is running.
func (s *Session) InFlight() bool {
	return s.inFlight.Load()
}

func (s *Session) snapshot() (Fields, *models.Habit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var prior *models.Habit
	if s.editing != nil {
		h := s.editing.Clone()
		prior = &h
	}
	return s.fields.clone(), prior
}

// Commit saves the session as a new habit or over the habit being edited,
// registering its reminders. Any triggers the edited habit had are cancelled
// first and reinstated if the commit fails. On success the session resets;
// on failure it is left as is so the user can resubmit.
func (s *Session) Commit(ctx context.Context, store Store) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return errors.ErrCommitInFlight
	}
	defer s.inFlight.Store(false)
	return s.commit(ctx, store)
}

func (s *Session) commit(ctx context.Context, store Store) error {
	fields, prior := s.snapshot()
	if !fields.Ready() {
		return errors.ErrValidation
	}

	var habit models.Habit
	if prior != nil {
		habit = prior.Clone()
		if len(prior.NotificationIDs) > 0 {
			s.reminders.Cancel(ctx, prior.NotificationIDs)
		}
	} else {
		habit = models.Habit{ID: newIDFunc(), DateAdded: nowFunc()}
	}

	habit.Name = fields.Title
	habit.Color = fields.Color
	habit.Weekdays = uniqueWeekdays(fields.Weekdays)
	habit.ReminderEnabled = fields.ReminderEnabled
	habit.ReminderText = fields.ReminderText
	habit.ReminderTime = fields.ReminderTime
	habit.NotificationIDs = nil

	if habit.ReminderEnabled {
		ids, err := s.reminders.Register(ctx, habit.Weekdays, habit.ReminderTime, constants.ReminderTitle, habit.ReminderText)
		if err != nil {
			logger.Warn("Habit not saved, reminders could not be scheduled", "habit", habit.ID, "error", err)
			s.reinstate(ctx, prior)
			if !errors.Is(err, errors.ErrScheduling) {
				err = errors.Wrap(errors.ErrScheduling, err)
			}
			return err
		}
		habit.NotificationIDs = ids
	}

	if err := save(store, func(tx storage.Tx) error { return tx.PutHabit(habit) }); err != nil {
		logger.Error("Failed to save habit", "habit", habit.ID, "error", err)
		if len(habit.NotificationIDs) > 0 {
			s.reminders.Cancel(ctx, habit.NotificationIDs)
		}
		s.reinstate(ctx, prior)
		return errors.Wrap(errors.ErrStore, err)
	}

	logger.Info("Saved habit", "habit", habit.ID, "name", habit.Name, "reminders", len(habit.NotificationIDs))
	s.Reset()
	return nil
}

// Submit runs Commit on its own goroutine and delivers the result on the
// returned channel. The commit is not cancelled with ctx. A second Submit
// while one is running fails immediately with ErrCommitInFlight.
func (s *Session) Submit(ctx context.Context, store Store) <-chan error {
	result := make(chan error, 1)
	if !s.inFlight.CompareAndSwap(false, true) {
		result <- errors.ErrCommitInFlight
		close(result)
		return result
	}

	ctx = context.WithoutCancel(ctx)
	go func() {
		err := s.commit(ctx, store)
		s.inFlight.Store(false)
		result <- err
		close(result)
	}()
	return result
}

// Delete removes the habit being edited and cancels its reminders.
// Without an edit target it returns ErrDelete and touches nothing.
func (s *Session) Delete(ctx context.Context, store Store) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return errors.ErrCommitInFlight
	}
	defer s.inFlight.Store(false)

	_, prior := s.snapshot()
	if prior == nil {
		return errors.ErrDelete
	}

	if len(prior.NotificationIDs) > 0 {
		s.reminders.Cancel(ctx, prior.NotificationIDs)
	}

	if err := save(store, func(tx storage.Tx) error { return tx.DeleteHabit(prior.ID) }); err != nil {
		logger.Error("Failed to delete habit", "habit", prior.ID, "error", err)
		s.reinstate(ctx, prior)
		return errors.Wrap(errors.ErrStore, err)
	}

	logger.Info("Deleted habit", "habit", prior.ID, "name", prior.Name)
	s.Reset()
	return nil
}

func (s *Session) reinstate(ctx context.Context, prior *models.Habit) {
	if prior == nil || len(prior.NotificationIDs) == 0 {
		return
	}
	if err := s.reminders.Reinstate(ctx, *prior); err != nil {
		logger.Error("Prior reminders could not be restored", "habit", prior.ID, "error", err)
	}
}

// save runs fn in a unit of work and commits it.
func save(store Store, fn func(storage.Tx) error) error {
	tx, err := store.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
