package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

// Deliverer shows a fired trigger to the user.
type Deliverer interface {
	Deliver(ctx context.Context, t models.Trigger) error
}

// DeliverFunc adapts a function to Deliverer.
type DeliverFunc func(ctx context.Context, t models.Trigger) error

func (f DeliverFunc) Deliver(ctx context.Context, t models.Trigger) error { return f(ctx, t) }

// Dispatcher fires due triggers. It is meant to run about once a minute.
type Dispatcher struct {
	store     TriggerStore
	deliverer Deliverer
}

// Result summarises one dispatch pass.
type Result struct {
	Disabled  bool
	Delivered []models.Trigger
	Failed    []models.Trigger
}

func NewDispatcher(store TriggerStore, deliverer Deliverer) *Dispatcher {
	return &Dispatcher{store: store, deliverer: deliverer}
}

// Due lists the triggers that should fire at now without delivering them.
func (d *Dispatcher) Due(ctx context.Context, now time.Time) ([]models.Trigger, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	settings, err := d.store.GetSettings()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		return nil, false, nil
	}
	models.ApplyDefaultSettings(&settings)
	grace := time.Duration(settings.NotificationGracePeriodMin) * time.Minute

	triggers, err := d.store.GetAllTriggers()
	if err != nil {
		return nil, true, fmt.Errorf("failed to list triggers: %w", err)
	}

	var due []models.Trigger
	for _, t := range triggers {
		if t.DueAt(now, grace) {
			due = append(due, t)
		}
	}
	return due, true, nil
}

// Run delivers every due trigger and records its firing so it is delivered
// at most once per occurrence. A failed delivery is left unmarked and is
// retried on the next pass while still inside the grace window.
func (d *Dispatcher) Run(ctx context.Context, now time.Time) (Result, error) {
	due, enabled, err := d.Due(ctx, now)
	if err != nil {
		return Result{}, err
	}
	if !enabled {
		return Result{Disabled: true}, nil
	}

	var res Result
	for _, t := range due {
		if err := d.deliverer.Deliver(ctx, t); err != nil {
			logger.Warn("Failed to deliver reminder", "trigger", t.ID, "error", err)
			res.Failed = append(res.Failed, t)
			continue
		}
		if err := d.store.MarkTriggerFired(t.ID, now); err != nil {
			logger.Error("Failed to record reminder delivery", "trigger", t.ID, "error", err)
		}
		res.Delivered = append(res.Delivered, t)
	}

	logger.Info("Dispatched reminders", "delivered", len(res.Delivered), "failed", len(res.Failed))
	return res, nil
}
