// Package reminder schedules and delivers recurring weekly habit reminders.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// Center is the notification subsystem pending triggers are registered with.
type Center interface {
	// RequestAuthorization reports whether reminders may be scheduled.
	RequestAuthorization(ctx context.Context) (bool, error)
	// Add registers one trigger.
	Add(ctx context.Context, t models.Trigger) error
	// Remove cancels triggers by id. Unknown ids are ignored.
	Remove(ctx context.Context, ids []string) error
	// Pending lists every registered trigger.
	Pending(ctx context.Context) ([]models.Trigger, error)
}

// TriggerStore is the subset of storage.Provider the reminder package needs.
type TriggerStore interface {
	GetSettings() (models.Settings, error)
	AddTrigger(models.Trigger) error
	RemoveTriggers(ids []string) error
	GetAllTriggers() ([]models.Trigger, error)
	MarkTriggerFired(id string, at time.Time) error
}

// StoreCenter keeps pending triggers in the record store. Authorization
// follows the notifications_enabled setting.
type StoreCenter struct {
	store TriggerStore
}

var _ Center = (*StoreCenter)(nil)

func NewStoreCenter(store TriggerStore) *StoreCenter {
	return &StoreCenter{store: store}
}

func (c *StoreCenter) RequestAuthorization(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	settings, err := c.store.GetSettings()
	if err != nil {
		return false, fmt.Errorf("failed to read notification setting: %w", err)
	}
	return settings.NotificationsEnabled, nil
}

func (c *StoreCenter) Add(ctx context.Context, t models.Trigger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.store.AddTrigger(t)
}

func (c *StoreCenter) Remove(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.store.RemoveTriggers(ids)
}

func (c *StoreCenter) Pending(ctx context.Context) ([]models.Trigger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.store.GetAllTriggers()
}
