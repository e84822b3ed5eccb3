package models

// Settings represents application-wide settings
type Settings struct {
	NotificationsEnabled       bool   `json:"notifications_enabled"`         // whether reminders may be scheduled at all
	NotificationGracePeriodMin int    `json:"notification_grace_period_min"` // grace period for late notifications in minutes
	Timezone                   string `json:"timezone"`                      // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	WeekStart                  string `json:"week_start"`                    // weekday name the dashboard week begins on
}
