package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

func createTestDB(t *testing.T, path string, habitName string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS habits (id TEXT PRIMARY KEY, name TEXT)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec("DELETE FROM habits; INSERT INTO habits VALUES ('1', ?)", habitName); err != nil {
		t.Fatalf("failed to insert data: %v", err)
	}
}

func habitName(t *testing.T, path string) string {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	var name string
	if err := db.QueryRow("SELECT name FROM habits WHERE id = '1'").Scan(&name); err != nil {
		t.Fatalf("failed to read habit: %v", err)
	}
	return name
}

func withClock(t *testing.T, start time.Time) func() {
	t.Helper()
	current := start
	old := nowFunc
	nowFunc = func() time.Time { return current }
	t.Cleanup(func() { nowFunc = old })
	return func() { current = current.Add(time.Hour) }
}

func TestCreateBackup(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habitual.db")
	createTestDB(t, dbPath, "Read")
	withClock(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local))

	m := NewManager(dbPath)
	path, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if filepath.Base(path) != constants.BackupFilePrefix+"20260302-080000"+constants.BackupFileSuffix {
		t.Errorf("unexpected backup name %s", filepath.Base(path))
	}
	if got := habitName(t, path); got != "Read" {
		t.Errorf("backup content = %q, want Read", got)
	}

	// same second gets a counter
	second, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("second CreateBackup failed: %v", err)
	}
	if filepath.Base(second) != constants.BackupFilePrefix+"20260302-080000-1"+constants.BackupFileSuffix {
		t.Errorf("unexpected second backup name %s", filepath.Base(second))
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := m.CreateBackup(); err == nil {
		t.Error("expected error backing up a missing database")
	}
}

func TestListAndRotate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habitual.db")
	createTestDB(t, dbPath, "Read")
	tick := withClock(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local))

	m := NewManager(dbPath)
	m.keep = 3
	for range 5 {
		if _, err := m.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup failed: %v", err)
		}
		tick()
	}

	// unrelated files are ignored
	_ = os.WriteFile(filepath.Join(m.GetBackupDir(), "notes.txt"), []byte("x"), 0600)
	_ = os.WriteFile(filepath.Join(m.GetBackupDir(), constants.BackupFilePrefix+"garbage"+constants.BackupFileSuffix), []byte("x"), 0600)

	backups, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after rotation, got %d", len(backups))
	}
	if backups[0].Timestamp.Hour() != 12 || backups[2].Timestamp.Hour() != 10 {
		t.Errorf("unexpected order: %v, %v", backups[0].Timestamp, backups[2].Timestamp)
	}
}

func TestListBackupsNoDirectory(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "habitual.db"))
	backups, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habitual.db")
	createTestDB(t, dbPath, "Read")
	tick := withClock(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local))

	m := NewManager(dbPath)
	saved, err := m.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	tick()

	createTestDB(t, dbPath, "Stretch")
	if err := m.RestoreBackup(saved); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := habitName(t, dbPath); got != "Read" {
		t.Errorf("restored content = %q, want Read", got)
	}

	backups, _ := m.ListBackups()
	if len(backups) != 2 {
		t.Fatalf("expected pre-restore snapshot to be kept, got %d backups", len(backups))
	}
	if got := habitName(t, backups[0].Path); got != "Stretch" {
		t.Errorf("pre-restore snapshot content = %q, want Stretch", got)
	}
}

func TestRestoreBackupInvalid(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(filepath.Join(dir, "habitual.db"))

	if err := m.RestoreBackup(filepath.Join(dir, "missing.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	bogus := filepath.Join(dir, "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := m.RestoreBackup(bogus); err == nil {
		t.Error("expected error for corrupt backup")
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{constants.BackupFilePrefix + "20260302-080000" + constants.BackupFileSuffix, true},
		{constants.BackupFilePrefix + "20260302-080000-12" + constants.BackupFileSuffix, true},
		{constants.BackupFilePrefix + "20260302-0800" + constants.BackupFileSuffix, false},
		{constants.BackupFilePrefix + "20260302-080000-x" + constants.BackupFileSuffix, false},
		{"other-20260302-080000.db", false},
	}
	for _, tt := range tests {
		if _, ok := parseBackupName(tt.name); ok != tt.ok {
			t.Errorf("parseBackupName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}
