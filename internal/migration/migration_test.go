package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationsFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestGetCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationsFS(map[string]string{
		"001_test.sql": "CREATE TABLE test (id INTEGER);",
	}), DriverSQLite)

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	db := setupTestDB(t)

	t.Run("sorted with non-sql files ignored", func(t *testing.T) {
		runner := NewRunner(db, migrationsFS(map[string]string{
			"002_second.sql": "SELECT 2;",
			"001_first.sql":  "SELECT 1;",
			"README.md":      "docs",
		}), DriverSQLite)

		migrations, err := runner.ReadMigrationFiles()
		if err != nil {
			t.Fatalf("ReadMigrationFiles failed: %v", err)
		}
		if len(migrations) != 2 {
			t.Fatalf("expected 2 migrations, got %d", len(migrations))
		}
		if migrations[0].Version != 1 || migrations[0].Name != "first" || migrations[1].Version != 2 {
			t.Errorf("unexpected order: %+v", migrations)
		}
	})

	t.Run("invalid filename", func(t *testing.T) {
		runner := NewRunner(db, migrationsFS(map[string]string{"init.sql": "SELECT 1;"}), DriverSQLite)
		if _, err := runner.ReadMigrationFiles(); err == nil {
			t.Error("expected error for filename without version")
		}
	})

	t.Run("duplicate version", func(t *testing.T) {
		runner := NewRunner(db, migrationsFS(map[string]string{
			"001_a.sql": "SELECT 1;",
			"001_b.sql": "SELECT 1;",
		}), DriverSQLite)
		_, err := runner.ReadMigrationFiles()
		if err == nil || !strings.Contains(err.Error(), "duplicate") {
			t.Errorf("expected duplicate version error, got %v", err)
		}
	})
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	fsys := migrationsFS(map[string]string{
		"001_init.sql":  "CREATE TABLE habits (id TEXT PRIMARY KEY);",
		"002_color.sql": "ALTER TABLE habits ADD COLUMN color TEXT;",
	})
	runner := NewRunner(db, fsys, DriverSQLite)

	var logs []string
	count, err := runner.ApplyMigrations(func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("applied %d migrations, want 2", count)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	if _, err := db.Exec("INSERT INTO habits (id, color) VALUES ('a', 'Card-1')"); err != nil {
		t.Errorf("migrated schema unusable: %v", err)
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil || count != 0 {
		t.Errorf("second run applied %d (err %v), want 0", count, err)
	}

	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion failed after migrating: %v", err)
	}
}

func TestApplyMigrationsRollsBackFailure(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationsFS(map[string]string{
		"001_init.sql":   "CREATE TABLE habits (id TEXT PRIMARY KEY);",
		"002_broken.sql": "CREATE TABLE triggers (id TEXT PRIMARY KEY); NOT VALID SQL;",
	}), DriverSQLite)

	count, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if count != 1 {
		t.Errorf("applied %d migrations, want 1", count)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
}

func TestValidateVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, migrationsFS(map[string]string{
		"001_init.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
	}), DriverSQLite)

	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("older schema should validate, got %v", err)
	}

	if err := runner.SetVersion(3); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	err := runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer") {
		t.Errorf("expected newer-version error, got %v", err)
	}
}

func TestRebind(t *testing.T) {
	pg := &Runner{driver: DriverPostgres}
	if got := pg.rebind("INSERT INTO t (a, b) VALUES (?, ?)"); got != "INSERT INTO t (a, b) VALUES ($1, $2)" {
		t.Errorf("rebind() = %q", got)
	}
	lite := &Runner{driver: DriverSQLite}
	if got := lite.rebind("SELECT ?"); got != "SELECT ?" {
		t.Errorf("rebind() should not touch sqlite queries, got %q", got)
	}
}
