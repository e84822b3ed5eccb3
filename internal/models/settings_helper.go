package models

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingNotificationGracePeriodMin:
			if _, err := fmt.Sscanf(value, "%d", &settings.NotificationGracePeriodMin); err != nil {
				return Settings{}, fmt.Errorf("parsing notification_grace_period_min: %w", err)
			}
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingWeekStart:
			settings.WeekStart = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingNotificationsEnabled:       fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingNotificationGracePeriodMin: fmt.Sprintf("%d", settings.NotificationGracePeriodMin),
		constants.SettingTimezone:                   settings.Timezone,
		constants.SettingWeekStart:                  settings.WeekStart,
	}
}

// DefaultSettings returns the settings a freshly initialized store starts with.
func DefaultSettings() Settings {
	return Settings{
		NotificationsEnabled:       constants.DefaultNotificationsEnabled,
		NotificationGracePeriodMin: constants.DefaultNotificationGracePeriodMin,
		Timezone:                   constants.DefaultTimezone,
		WeekStart:                  constants.DefaultWeekStart,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.NotificationGracePeriodMin == 0 {
		settings.NotificationGracePeriodMin = constants.DefaultNotificationGracePeriodMin
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.WeekStart == "" {
		settings.WeekStart = constants.DefaultWeekStart
	}
}
