package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage/diskv"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	ctx := cli.NewContext(store)

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, dbPath, cleanup
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get initial settings: %v", err)
	}
	settings.WeekStart = "Monday"
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save modified settings: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatalf("database file was not recreated after force")
	}

	fresh, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings after force: %v", err)
	}
	if fresh.WeekStart != "Sunday" {
		t.Errorf("expected default week start Sunday, got %q", fresh.WeekStart)
	}
}

func TestInitCmd_ForceWithNonExistentDatabase(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force on non-existent database failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created")
	}
}

func TestInitCmd_ForceSameSource(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx); err == nil {
		t.Error("expected error when source and destination are the same")
	}
}

func TestInitCmd_CopyFromDiskv(t *testing.T) {
	srcDir := t.TempDir()
	src := diskv.NewStore(srcDir)
	if err := src.Init(); err != nil {
		t.Fatalf("failed to init source: %v", err)
	}
	srcCtx := cli.NewContext(src)
	s := srcCtx.NewSession()
	s.SetTitle("Read")
	s.SetWeekdays([]string{"Monday", "Wednesday"})
	s.SetReminderEnabled(true)
	s.SetReminderText("Read 20 pages")
	if err := s.Commit(context.Background(), src); err != nil {
		t.Fatalf("failed to seed source: %v", err)
	}

	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{Source: srcDir}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil || len(habits) != 1 {
		t.Fatalf("expected 1 copied habit, got %d (%v)", len(habits), err)
	}
	triggers, err := ctx.Store.GetAllTriggers()
	if err != nil || len(triggers) != 2 {
		t.Fatalf("expected 2 copied reminders, got %d (%v)", len(triggers), err)
	}
	ids := map[string]bool{}
	for _, tr := range triggers {
		ids[tr.ID] = true
	}
	for _, id := range habits[0].NotificationIDs {
		if !ids[id] {
			t.Errorf("habit references missing reminder %s", id)
		}
	}
}
