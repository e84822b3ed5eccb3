package reminder

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

// Scheduler registers and cancels the weekly triggers behind a habit's reminder.
type Scheduler struct {
	center Center
	now    func() time.Time
	newID  func() string
}

func NewScheduler(center Center) *Scheduler {
	return &Scheduler{
		center: center,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// RequestAccess asks the center for permission. Failures count as denied.
func (s *Scheduler) RequestAccess(ctx context.Context) bool {
	granted, err := s.center.RequestAuthorization(ctx)
	if err != nil {
		logger.Warn("Notification authorization failed", "error", err)
		return false
	}
	return granted
}

// Register schedules one weekly trigger per weekday at the given time and
// returns their ids in weekday order. It is all-or-nothing: on any failure
// every trigger it already submitted is removed and an ErrScheduling error
// is returned.
func (s *Scheduler) Register(ctx context.Context, weekdays []string, at models.TimeOfDay, title, body string) ([]string, error) {
	granted, err := s.center.RequestAuthorization(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrScheduling, err)
	}
	if !granted {
		return nil, errors.Wrap(errors.ErrScheduling, errors.ErrPermissionDenied)
	}

	ids := make([]string, 0, len(weekdays))
	for _, name := range weekdays {
		wd, ok := models.WeekdayByName(name)
		if !ok {
			s.rollback(ctx, ids)
			return nil, errors.Wrap(errors.ErrScheduling, fmt.Errorf("%w: %q", errors.ErrUnknownWeekday, name))
		}

		t := s.trigger(s.newID(), wd, at, title, body)
		if err := s.center.Add(ctx, t); err != nil {
			s.rollback(ctx, ids)
			return nil, errors.Wrap(errors.ErrScheduling, fmt.Errorf("%s: %w", name, err))
		}
		ids = append(ids, t.ID)
	}

	logger.Debug("Registered reminders", "count", len(ids), "at", at.String())
	return ids, nil
}

// Cancel removes the given triggers. It never fails; errors are logged.
func (s *Scheduler) Cancel(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	// Cancellation must run even if the caller's context is already done.
	if err := s.center.Remove(context.WithoutCancel(ctx), ids); err != nil {
		logger.Error("Failed to cancel reminders", "ids", ids, "error", err)
		return
	}
	logger.Debug("Cancelled reminders", "count", len(ids))
}

// Reinstate re-registers a committed habit's triggers under their original
// ids. Ids pair with weekdays by position.
func (s *Scheduler) Reinstate(ctx context.Context, habit models.Habit) error {
	if !habit.ReminderEnabled || len(habit.NotificationIDs) == 0 {
		return nil
	}
	if len(habit.NotificationIDs) != len(habit.Weekdays) {
		return fmt.Errorf("habit %s has %d notification ids for %d weekdays", habit.ID, len(habit.NotificationIDs), len(habit.Weekdays))
	}

	ctx = context.WithoutCancel(ctx)
	var errs []error
	for i, name := range habit.Weekdays {
		wd, ok := models.WeekdayByName(name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", errors.ErrUnknownWeekday, name))
			continue
		}
		t := s.trigger(habit.NotificationIDs[i], wd, habit.ReminderTime, constants.ReminderTitle, habit.ReminderText)
		if err := s.center.Add(ctx, t); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if err := stderrors.Join(errs...); err != nil {
		logger.Error("Failed to reinstate reminders", "habit", habit.ID, "error", err)
		return err
	}
	logger.Debug("Reinstated reminders", "habit", habit.ID, "count", len(habit.NotificationIDs))
	return nil
}

func (s *Scheduler) trigger(id string, wd time.Weekday, at models.TimeOfDay, title, body string) models.Trigger {
	return models.Trigger{
		ID:        id,
		Weekday:   wd,
		Hour:      at.Hour,
		Minute:    at.Minute,
		Title:     title,
		Body:      body,
		Repeats:   true,
		CreatedAt: s.now(),
	}
}

func (s *Scheduler) rollback(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	logger.Warn("Rolling back partially registered reminders", "count", len(ids))
	s.Cancel(ctx, ids)
}
