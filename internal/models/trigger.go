package models

import (
	"fmt"
	"time"
)

// Trigger is one pending recurring local notification: a weekday and a time
// of day, repeated weekly.
type Trigger struct {
	ID          string       `json:"id"`
	Weekday     time.Weekday `json:"weekday"`
	Hour        int          `json:"hour"`
	Minute      int          `json:"minute"`
	Title       string       `json:"title"`
	Body        string       `json:"body"`
	Repeats     bool         `json:"repeats"`
	CreatedAt   time.Time    `json:"created_at"`
	LastFiredAt *time.Time   `json:"last_fired_at,omitempty"`
}

// At returns the trigger's time of day.
func (t *Trigger) At() TimeOfDay {
	return TimeOfDay{Hour: t.Hour, Minute: t.Minute}
}

// Occurrence returns the trigger's firing instant on the day of now, in now's location.
func (t *Trigger) Occurrence(now time.Time) time.Time {
	return t.At().On(now)
}

// DueAt reports whether the trigger should fire at now. A trigger is due on
// its weekday from its time of day until grace has elapsed, and at most once
// per occurrence. Non-repeating triggers fire only once overall.
func (t *Trigger) DueAt(now time.Time, grace time.Duration) bool {
	if now.Weekday() != t.Weekday {
		return false
	}
	if !t.Repeats && t.LastFiredAt != nil {
		return false
	}

	occurrence := t.Occurrence(now)
	if now.Before(occurrence) || now.Sub(occurrence) > grace {
		return false
	}

	if t.LastFiredAt != nil && !t.LastFiredAt.Before(occurrence) {
		return false
	}
	return true
}

// Message formats the text shown to the user when the trigger fires.
func (t *Trigger) Message() string {
	if t.Body == "" {
		return t.Title
	}
	return fmt.Sprintf("%s: %s", t.Title, t.Body)
}

// Describe returns a short human-readable schedule, e.g. "Mon 08:00 weekly".
func (t *Trigger) Describe() string {
	repeat := "once"
	if t.Repeats {
		repeat = "weekly"
	}
	return fmt.Sprintf("%s %s %s", t.Weekday.String()[:3], t.At(), repeat)
}
