package models

import "testing"

func TestMapToSettings(t *testing.T) {
	settings, err := MapToSettings(map[string]string{
		"notifications_enabled":         "true",
		"notification_grace_period_min": "15",
		"timezone":                      "Europe/London",
		"week_start":                    "Monday",
	})
	if err != nil {
		t.Fatalf("MapToSettings failed: %v", err)
	}
	if !settings.NotificationsEnabled || settings.NotificationGracePeriodMin != 15 ||
		settings.Timezone != "Europe/London" || settings.WeekStart != "Monday" {
		t.Errorf("unexpected settings: %+v", settings)
	}

	if _, err := MapToSettings(map[string]string{"notification_grace_period_min": "soon"}); err == nil {
		t.Error("expected error for non-numeric grace period")
	}
}

func TestApplyDefaultSettings(t *testing.T) {
	var s Settings
	ApplyDefaultSettings(&s)
	if s.NotificationGracePeriodMin != 10 || s.Timezone != "Local" || s.WeekStart != "Sunday" {
		t.Errorf("defaults not applied: %+v", s)
	}
}
