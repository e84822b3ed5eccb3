package constants

const (
	// Setting keys
	SettingNotificationsEnabled       = "notifications_enabled"
	SettingNotificationGracePeriodMin = "notification_grace_period_min"
	SettingTimezone                   = "timezone"
	SettingWeekStart                  = "week_start"

	// Default Settings Values
	DefaultNotificationsEnabled       = true
	DefaultNotificationGracePeriodMin = 10
	DefaultTimezone                   = "Local" // Use system local timezone by default
	DefaultWeekStart                  = "Sunday"
)
