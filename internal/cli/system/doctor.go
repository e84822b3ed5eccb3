package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/week"
)

type DoctorCmd struct {
	Fix bool `help:"Remove reminders that no habit references."`
}

type check struct {
	name string
	run  func(*DoctorCmd, *cli.Context) error
	// warn marks checks whose failure is reported but does not fail the run.
	warn bool
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warn: true},
	{name: "Settings", run: checkSettings, needsDB: true},
	{name: "Habit integrity", run: checkHabitsIntegrity, needsDB: true},
	{name: "Reminder integrity", run: (*DoctorCmd).checkReminders, needsDB: true},
	{name: "Clock/timezone", run: checkClock},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(cmd, ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			fmt.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			fmt.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(_ *DoctorCmd, ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run '%s migrate')", current, latest, constants.AppName)
	}
	return nil
}

func checkBackupsPresent(_ *DoctorCmd, ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkSettings(_ *DoctorCmd, ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone %q", settings.Timezone)
	}
	if _, err := week.ParseWeekStart(settings.WeekStart); err != nil {
		return err
	}
	if settings.NotificationGracePeriodMin < 0 {
		return fmt.Errorf("negative grace period %d", settings.NotificationGracePeriodMin)
	}
	return nil
}

func checkHabitsIntegrity(_ *DoctorCmd, ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}

	seen := make(map[string]string)
	for _, h := range habits {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
		if h.ReminderEnabled && len(h.NotificationIDs) != len(h.Weekdays) {
			return fmt.Errorf("habit %s has %d reminders for %d days", h.ID, len(h.NotificationIDs), len(h.Weekdays))
		}
		for _, id := range h.NotificationIDs {
			if owner, dup := seen[id]; dup {
				return fmt.Errorf("reminder %s is shared by habits %s and %s", id, owner, h.ID)
			}
			seen[id] = h.ID
		}
	}
	return nil
}

// checkReminders verifies that habits and pending triggers reference each
// other. With --fix, triggers no habit references are removed.
func (cmd *DoctorCmd) checkReminders(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}
	triggers, err := ctx.Store.GetAllTriggers()
	if err != nil {
		return fmt.Errorf("failed to get reminders: %w", err)
	}

	pending := make(map[string]bool, len(triggers))
	for _, t := range triggers {
		pending[t.ID] = true
	}
	referenced := make(map[string]bool)
	missing := 0
	for _, h := range habits {
		for _, id := range h.NotificationIDs {
			referenced[id] = true
			if !pending[id] {
				missing++
			}
		}
	}

	var orphans []string
	for _, t := range triggers {
		if !referenced[t.ID] {
			orphans = append(orphans, t.ID)
		}
	}

	if len(orphans) > 0 && cmd.Fix {
		if err := ctx.Store.RemoveTriggers(orphans); err != nil {
			return fmt.Errorf("failed to remove orphaned reminders: %w", err)
		}
		fmt.Printf("   Removed %d orphaned reminder(s)\n", len(orphans))
		orphans = nil
	}

	switch {
	case missing > 0:
		return fmt.Errorf("%d reminder(s) referenced by habits are not scheduled, re-save the habit to reschedule", missing)
	case len(orphans) > 0:
		return fmt.Errorf("found %d reminder(s) not referenced by any habit (run with --fix)", len(orphans))
	}
	return nil
}

func checkClock(_ *DoctorCmd, ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
