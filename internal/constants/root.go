package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	DefaultConfigFile  = "~/.config/habitual/config.json"
	Version            = "v0.1.0"

	// Environment variables
	EnvDBConnection = "HABITUAL_DB_CONNECTION"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "habitual-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitual"
	TrayAppExecutable      = "habitual-tray"

	// ReminderTitle is the title of every habit reminder notification.
	ReminderTitle = "Habit Reminder"

	// Dashboard
	DashboardRefreshInterval = 30 * time.Second
	DaysPerWeek              = 7
)

// Session States
const (
	StateDashboard SessionState = iota
	StateEditHabit
	StateConfirmDelete
)
