// Package week projects the current calendar week for the dashboard.
package week

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// Day is one column of the dashboard week.
type Day struct {
	Name string    // weekday symbol, e.g. "Monday"
	Date time.Time // local midnight
}

// Short returns the first three letters of the weekday name.
func (d Day) Short() string {
	if len(d.Name) <= 3 {
		return d.Name
	}
	return d.Name[:3]
}

// Project returns the seven days of the calendar week containing today,
// starting at start, in week order. Dates are at midnight in today's location.
func Project(today time.Time, start time.Weekday) []Day {
	offset := (int(today.Weekday()) - int(start) + constants.DaysPerWeek) % constants.DaysPerWeek
	first := time.Date(today.Year(), today.Month(), today.Day()-offset, 0, 0, 0, 0, today.Location())

	days := make([]Day, constants.DaysPerWeek)
	for i := range days {
		// AddDate keeps midnight across DST changes, unlike adding 24h.
		date := first.AddDate(0, 0, i)
		days[i] = Day{Name: date.Weekday().String(), Date: date}
	}
	return days
}

// Active reports, per day, whether the habit is active on that weekday.
func Active(h models.Habit, days []Day) []bool {
	active := make([]bool, len(days))
	for i, d := range days {
		active[i] = h.IsActiveOn(d.Name)
	}
	return active
}

// ParseWeekStart resolves a weekday name (case-insensitive, full or three-letter) to a week start.
func ParseWeekStart(name string) (time.Weekday, error) {
	if name == "" {
		name = constants.DefaultWeekStart
	}
	for i := range constants.DaysPerWeek {
		wd := time.Weekday(i)
		full := wd.String()
		if strings.EqualFold(name, full) || strings.EqualFold(name, full[:3]) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("invalid week start %q", name)
}
