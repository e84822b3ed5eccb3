package storage

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// ErrNotFound is returned when a habit or trigger does not exist.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	GetHabit(id string) (models.Habit, error)
	// GetAllHabits returns every habit, most recently added first.
	GetAllHabits() ([]models.Habit, error)
	// Begin starts a unit of work. Nothing staged on the Tx is visible to
	// readers until Commit succeeds.
	Begin() (Tx, error)

	// Triggers
	AddTrigger(models.Trigger) error
	// RemoveTriggers deletes the given triggers; unknown ids are ignored.
	RemoveTriggers(ids []string) error
	GetAllTriggers() ([]models.Trigger, error)
	MarkTriggerFired(id string, at time.Time) error

	// Utils
	GetConfigPath() string
}

// Tx is a habit unit of work. Commit is atomic: on failure the committed
// state is unchanged. Rollback after Commit is a no-op.
type Tx interface {
	PutHabit(models.Habit) error
	DeleteHabit(id string) error
	Commit() error
	Rollback() error
}

// Migrator is implemented by SQL-backed providers with versioned schemas.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	// SchemaVersion reports the applied and the newest embedded schema version.
	SchemaVersion() (current, latest int, err error)
}

// Watcher is implemented by providers that can report external changes to
// their records. Each receive on the channel means "something changed, re-read".
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}
