// Package memory is a process-local Provider with staged transactions and
// fault injection, used by tests and the --backend memory mode.
package memory

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

// ErrInjected is the default error returned by injected faults.
var ErrInjected = errors.New("injected failure")

type Store struct {
	mu       sync.RWMutex
	settings map[string]string
	habits   map[string]models.Habit
	triggers map[string]models.Trigger
	loaded   bool

	// Fault injection. A non-nil error is returned by the matching operation.
	FailCommit     error
	FailAddTrigger error
	// FailAddTriggerAfter lets that many AddTrigger calls succeed before
	// FailAddTrigger takes effect.
	FailAddTriggerAfter int
	FailRemove          error

	addCalls int
}

func New() *Store {
	return &Store{
		settings: map[string]string{},
		habits:   map[string]models.Habit{},
		triggers: map[string]models.Trigger{},
	}
}

func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := models.DefaultSettings()
	if len(s.settings) > 0 {
		var err error
		if current, err = models.MapToSettings(s.settings); err != nil {
			return err
		}
		models.ApplyDefaultSettings(&current)
	}
	s.settings = models.SettingsToMap(current)
	s.loaded = true
	return nil
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.settings = models.SettingsToMap(models.DefaultSettings())
		s.loaded = true
	}
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) GetConfigPath() string { return "memory" }

func (s *Store) GetSettings() (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.settings) == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	return models.MapToSettings(s.settings)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = models.SettingsToMap(settings)
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.habits[id]
	if !ok {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return h.Clone(), nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	habits := make([]models.Habit, 0, len(s.habits))
	for _, h := range s.habits {
		habits = append(habits, h.Clone())
	}
	sort.Slice(habits, func(i, j int) bool {
		if habits[i].DateAdded.Equal(habits[j].DateAdded) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].DateAdded.After(habits[j].DateAdded)
	})
	return habits, nil
}

// HabitCount returns the number of committed habits.
func (s *Store) HabitCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.habits)
}

func (s *Store) AddTrigger(t models.Trigger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addCalls++
	if s.FailAddTrigger != nil && s.addCalls > s.FailAddTriggerAfter {
		return s.FailAddTrigger
	}
	if _, exists := s.triggers[t.ID]; exists {
		return fmt.Errorf("trigger %s already exists", t.ID)
	}
	s.triggers[t.ID] = t
	return nil
}

func (s *Store) RemoveTriggers(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailRemove != nil {
		return s.FailRemove
	}
	for _, id := range ids {
		delete(s.triggers, id)
	}
	return nil
}

func (s *Store) GetAllTriggers() ([]models.Trigger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	triggers := make([]models.Trigger, 0, len(s.triggers))
	for _, t := range s.triggers {
		triggers = append(triggers, t)
	}
	sort.Slice(triggers, func(i, j int) bool {
		a, b := triggers[i], triggers[j]
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		if a.Minute != b.Minute {
			return a.Minute < b.Minute
		}
		return a.ID < b.ID
	})
	return triggers, nil
}

func (s *Store) MarkTriggerFired(id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.triggers[id]
	if !ok {
		return fmt.Errorf("trigger %s: %w", id, storage.ErrNotFound)
	}
	t.LastFiredAt = &at
	s.triggers[id] = t
	return nil
}

func (s *Store) Begin() (storage.Tx, error) {
	return &habitTx{s: s, puts: map[string]models.Habit{}, deletes: map[string]bool{}}, nil
}

type habitTx struct {
	s       *Store
	puts    map[string]models.Habit
	deletes map[string]bool
	done    bool
}

func (t *habitTx) PutHabit(h models.Habit) error {
	if t.done {
		return errors.New("transaction already finished")
	}
	if err := h.Validate(); err != nil {
		return err
	}
	delete(t.deletes, h.ID)
	t.puts[h.ID] = h.Clone()
	return nil
}

func (t *habitTx) DeleteHabit(id string) error {
	if t.done {
		return errors.New("transaction already finished")
	}
	if _, staged := t.puts[id]; !staged {
		if _, err := t.s.GetHabit(id); err != nil {
			return err
		}
	}
	delete(t.puts, id)
	t.deletes[id] = true
	return nil
}

func (t *habitTx) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true

	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.FailCommit != nil {
		return t.s.FailCommit
	}
	for id, h := range t.puts {
		if prior, ok := t.s.habits[id]; ok {
			h.DateAdded = prior.DateAdded
		}
		t.s.habits[id] = h
	}
	for id := range t.deletes {
		delete(t.s.habits, id)
	}
	return nil
}

func (t *habitTx) Rollback() error {
	t.done = true
	return nil
}
