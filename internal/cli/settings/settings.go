package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/week"
)

type SettingsCmd struct {
	List bool              `help:"List current settings."`
	Set  map[string]string `help:"Set one or more settings (key=value)." mapsep:","`

	NotificationsEnabled *bool `help:"Enable or disable reminders."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List || (len(c.Set) == 0 && c.NotificationsEnabled == nil) {
		printSettings(settings)
		return nil
	}

	updated := settings
	if c.NotificationsEnabled != nil {
		updated.NotificationsEnabled = *c.NotificationsEnabled
	}

	keys := make([]string, 0, len(c.Set))
	for k := range c.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := apply(&updated, k, c.Set[k]); err != nil {
			return err
		}
	}

	if err := ctx.Store.SaveSettings(updated); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}

func printSettings(s models.Settings) {
	fmt.Println("Current Settings:")
	fmt.Printf("  Notifications Enabled: %v\n", s.NotificationsEnabled)
	fmt.Printf("  Grace Period:          %d min\n", s.NotificationGracePeriodMin)
	fmt.Printf("  Timezone:              %s\n", s.Timezone)
	fmt.Printf("  Week Start:            %s\n", s.WeekStart)
}

// apply validates value and stores it under key.
func apply(s *models.Settings, key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case constants.SettingNotificationsEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q (expected true or false)", key, value)
		}
		s.NotificationsEnabled = b
	case constants.SettingNotificationGracePeriodMin:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid value for %s: %q (expected minutes >= 0)", key, value)
		}
		s.NotificationGracePeriodMin = n
	case constants.SettingTimezone:
		if !utils.ValidateTimezone(value) {
			return fmt.Errorf("invalid timezone: %q", value)
		}
		s.Timezone = value
	case constants.SettingWeekStart:
		wd, err := week.ParseWeekStart(value)
		if err != nil {
			return err
		}
		s.WeekStart = wd.String()
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
