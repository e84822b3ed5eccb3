package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// ColorTag names one of the fixed card colours a habit can be drawn with.
type ColorTag string

const (
	ColorCard1 ColorTag = "Card-1"
	ColorCard2 ColorTag = "Card-2"
	ColorCard3 ColorTag = "Card-3"
	ColorCard4 ColorTag = "Card-4"
	ColorCard5 ColorTag = "Card-5"
	ColorCard6 ColorTag = "Card-6"
	ColorCard7 ColorTag = "Card-7"

	DefaultColor = ColorCard1
)

// Palette lists every valid colour tag in display order.
var Palette = []ColorTag{ColorCard1, ColorCard2, ColorCard3, ColorCard4, ColorCard5, ColorCard6, ColorCard7}

// Valid reports whether c is part of the palette.
func (c ColorTag) Valid() bool {
	return slices.Contains(Palette, c)
}

// ParseColorTag accepts either the full tag ("Card-3") or its palette number ("3").
func ParseColorTag(s string) (ColorTag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultColor, nil
	}
	c := ColorTag(s)
	if c.Valid() {
		return c, nil
	}
	c = ColorTag("Card-" + s)
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("invalid color %q (expected Card-1 through Card-%d)", s, len(Palette))
}

// TimeOfDay is an hour and minute independent of any date.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseTimeOfDay parses a time string in the standard format (HH:MM).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// TimeOfDayFrom extracts the wall-clock hour and minute of t.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On returns the instant at this time of day on the date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// Valid reports whether the hour and minute are in range.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

// Habit is a recurring activity, the weekdays it is active on and its optional reminder.
type Habit struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Color           ColorTag  `json:"color"`
	Weekdays        []string  `json:"weekdays"` // weekday names, e.g. "Monday"
	ReminderEnabled bool      `json:"reminder_enabled"`
	ReminderText    string    `json:"reminder_text"`
	ReminderTime    TimeOfDay `json:"reminder_time"`
	DateAdded       time.Time `json:"date_added"`
	NotificationIDs []string  `json:"notification_ids"`
}

// Validate checks the fields a habit needs before it can be committed.
func (h *Habit) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return fmt.Errorf("habit id cannot be empty")
	}
	if h.Name == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if !h.Color.Valid() {
		return fmt.Errorf("invalid habit color %q", h.Color)
	}
	if len(h.Weekdays) == 0 {
		return fmt.Errorf("at least one weekday must be selected")
	}
	seen := make(map[string]bool, len(h.Weekdays))
	for _, name := range h.Weekdays {
		if _, ok := WeekdayByName(name); !ok {
			return fmt.Errorf("invalid weekday %q", name)
		}
		if seen[name] {
			return fmt.Errorf("weekday %q selected more than once", name)
		}
		seen[name] = true
	}
	if h.ReminderEnabled && h.ReminderText == "" {
		return fmt.Errorf("reminder text cannot be empty when reminders are on")
	}
	if !h.ReminderTime.Valid() {
		return fmt.Errorf("invalid reminder time %s", h.ReminderTime)
	}
	if !h.ReminderEnabled && len(h.NotificationIDs) > 0 {
		return fmt.Errorf("habit without reminders cannot carry notification ids")
	}
	return nil
}

// IsActiveOn reports whether the named weekday is one of the habit's active days.
func (h *Habit) IsActiveOn(weekday string) bool {
	return slices.Contains(h.Weekdays, weekday)
}

// Frequency describes how often the habit occurs, e.g. "Everyday" or "3 times a week".
func (h *Habit) Frequency() string {
	count := len(h.Weekdays)
	if count == constants.DaysPerWeek {
		return "Everyday"
	}
	return fmt.Sprintf("%d times a week", count)
}

// Clone returns a deep copy so callers can mutate slices without aliasing.
func (h Habit) Clone() Habit {
	h.Weekdays = slices.Clone(h.Weekdays)
	h.NotificationIDs = slices.Clone(h.NotificationIDs)
	return h
}

// WeekdayNames returns the weekday symbols, Sunday first.
func WeekdayNames() []string {
	names := make([]string, constants.DaysPerWeek)
	for i := range names {
		names[i] = time.Weekday(i).String()
	}
	return names
}

// WeekdayByName resolves a weekday symbol ("Monday") to its calendar index.
// Matching is exact, like the identity key stored on habits.
func WeekdayByName(name string) (time.Weekday, bool) {
	for i := range constants.DaysPerWeek {
		if time.Weekday(i).String() == name {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// ParseWeekdays parses a comma-separated list of weekdays into weekday symbols.
// Accepts full names, three-letter abbreviations, numbers (0=Sunday) and the
// shorthands "daily", "weekdays" and "weekends".
func ParseWeekdays(s string) ([]string, error) {
	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	var names []string
	add := func(wd time.Weekday) {
		if !slices.Contains(names, wd.String()) {
			names = append(names, wd.String())
		}
	}

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		switch part {
		case "":
			continue
		case "daily", "everyday":
			for i := range constants.DaysPerWeek {
				add(time.Weekday(i))
			}
			continue
		case "weekdays":
			for wd := time.Monday; wd <= time.Friday; wd++ {
				add(wd)
			}
			continue
		case "weekends":
			add(time.Saturday)
			add(time.Sunday)
			continue
		}
		if wd, ok := dayMap[part]; ok {
			add(wd)
			continue
		}
		var num int
		if _, err := fmt.Sscanf(part, "%d", &num); err == nil && num >= 0 && num <= 6 && fmt.Sprint(num) == part {
			add(time.Weekday(num))
			continue
		}
		return nil, fmt.Errorf("invalid weekday: %s", part)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no weekdays given")
	}
	return names, nil
}
