package habits

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/cli"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/memory"
)

func setupTestStore(t *testing.T) (*cli.Context, *memory.Store) {
	t.Helper()
	store := memory.New()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return cli.NewContext(store), store
}

func onlyHabit(t *testing.T, store *memory.Store) models.Habit {
	t.Helper()
	habits, err := store.GetAllHabits()
	if err != nil {
		t.Fatalf("failed to get habits: %v", err)
	}
	if len(habits) != 1 {
		t.Fatalf("expected 1 habit, got %d", len(habits))
	}
	return habits[0]
}

func TestHabitAddCmd(t *testing.T) {
	ctx, store := setupTestStore(t)

	cmd := &HabitAddCmd{Name: "Read", Days: "mon,wed", Color: "3", Remind: true, Text: "Read 20 pages", At: "08:00"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	h := onlyHabit(t, store)
	if h.Name != "Read" || h.Color != models.ColorCard3 {
		t.Errorf("unexpected habit: %+v", h)
	}
	if len(h.NotificationIDs) != 2 {
		t.Fatalf("expected 2 notification ids, got %d", len(h.NotificationIDs))
	}
	triggers, _ := store.GetAllTriggers()
	if len(triggers) != 2 {
		t.Errorf("expected 2 pending triggers, got %d", len(triggers))
	}
	for _, tr := range triggers {
		if tr.Hour != 8 || tr.Minute != 0 || tr.Body != "Read 20 pages" {
			t.Errorf("unexpected trigger: %+v", tr)
		}
	}
}

func TestHabitAddCmd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cmd  HabitAddCmd
		kind error
	}{
		{"empty name", HabitAddCmd{Name: " ", Days: "mon"}, apperrors.ErrValidation},
		{"reminder without text", HabitAddCmd{Name: "Read", Days: "mon", Remind: true}, apperrors.ErrValidation},
		{"bad weekday", HabitAddCmd{Name: "Read", Days: "mon,someday"}, nil},
		{"bad color", HabitAddCmd{Name: "Read", Days: "mon", Color: "Card-9"}, nil},
		{"bad time", HabitAddCmd{Name: "Read", Days: "mon", Remind: true, Text: "go", At: "25:00"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, store := setupTestStore(t)
			err := tt.cmd.Run(ctx)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.kind != nil && !errors.Is(err, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, err)
			}
			if store.HabitCount() != 0 {
				t.Error("nothing should be saved")
			}
		})
	}
}

func TestHabitAddCmd_NotificationsDisabled(t *testing.T) {
	ctx, store := setupTestStore(t)
	settings, _ := store.GetSettings()
	settings.NotificationsEnabled = false
	_ = store.SaveSettings(settings)

	cmd := &HabitAddCmd{Name: "Read", Days: "mon", Remind: true, Text: "go"}
	err := cmd.Run(ctx)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if store.HabitCount() != 0 {
		t.Error("nothing should be saved")
	}
}

func TestHabitEditCmd(t *testing.T) {
	ctx, store := setupTestStore(t)
	add := &HabitAddCmd{Name: "Read", Days: "mon,wed", Remind: true, Text: "go", At: "08:00"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	before := onlyHabit(t, store)

	off := false
	name := "Read more"
	edit := &HabitEditCmd{Habit: "read", Name: &name, Remind: &off}
	if err := edit.Run(ctx); err != nil {
		t.Fatalf("habit edit failed: %v", err)
	}

	after := onlyHabit(t, store)
	if after.ID != before.ID || !after.DateAdded.Equal(before.DateAdded) {
		t.Error("edit should keep id and date added")
	}
	if after.Name != "Read more" || after.ReminderEnabled || len(after.NotificationIDs) != 0 {
		t.Errorf("unexpected habit after edit: %+v", after)
	}
	triggers, _ := store.GetAllTriggers()
	if len(triggers) != 0 {
		t.Errorf("expected reminders cancelled, got %d", len(triggers))
	}
}

func TestHabitEditCmd_NotFound(t *testing.T) {
	ctx, _ := setupTestStore(t)
	name := "x"
	err := (&HabitEditCmd{Habit: "missing", Name: &name}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestHabitDeleteCmd(t *testing.T) {
	ctx, store := setupTestStore(t)
	if err := (&HabitAddCmd{Name: "Read", Days: "daily", Remind: true, Text: "go"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	ctx.In = strings.NewReader("n\n")
	if err := (&HabitDeleteCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatalf("habit delete failed: %v", err)
	}
	if store.HabitCount() != 1 {
		t.Fatal("answering no should keep the habit")
	}

	ctx.In = strings.NewReader("y\n")
	if err := (&HabitDeleteCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatalf("habit delete failed: %v", err)
	}
	if store.HabitCount() != 0 {
		t.Error("expected habit deleted")
	}
	triggers, _ := store.GetAllTriggers()
	if len(triggers) != 0 {
		t.Errorf("expected 7 reminders cancelled, %d left", len(triggers))
	}
}

func TestHabitDeleteCmd_StoreFailure(t *testing.T) {
	ctx, store := setupTestStore(t)
	if err := (&HabitAddCmd{Name: "Read", Days: "mon", Remind: true, Text: "go"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}

	store.FailCommit = memory.ErrInjected
	err := (&HabitDeleteCmd{Habit: "Read", Yes: true}).Run(ctx)
	if !errors.Is(err, apperrors.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if store.HabitCount() != 1 {
		t.Error("habit should survive a failed delete")
	}
	triggers, _ := store.GetAllTriggers()
	if len(triggers) != 1 {
		t.Errorf("expected reminder reinstated, got %d", len(triggers))
	}
}

func TestHabitListAndShow(t *testing.T) {
	ctx, _ := setupTestStore(t)
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Fatalf("habit list on empty store failed: %v", err)
	}
	if err := (&HabitAddCmd{Name: "Read", Days: "weekdays", Remind: true, Text: "go"}).Run(ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	if err := (&HabitListCmd{}).Run(ctx); err != nil {
		t.Errorf("habit list failed: %v", err)
	}
	if err := (&HabitShowCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Errorf("habit show failed: %v", err)
	}
	if err := (&DashboardCmd{Width: 40}).Run(ctx); err != nil {
		t.Errorf("dashboard failed: %v", err)
	}
}
