package shared

import (
	"database/sql"
	"testing"
)

func migrationTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count)
	if err != nil {
		t.Fatalf("failed to check table %s: %v", name, err)
	}
	return count > 0
}

func TestRunMigrations(t *testing.T) {
	db := migrationTestDB(t)

	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() unexpected error: %v", err)
	}

	for _, table := range []string{"runs", "runs_sequence", "run_tracks", "schema_migrations"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s missing after migrations", table)
		}
	}

	t.Run("idempotent", func(t *testing.T) {
		if err := RunMigrations(db); err != nil {
			t.Errorf("second RunMigrations() failed: %v", err)
		}
	})

	t.Run("sequence table is seeded", func(t *testing.T) {
		var value int
		if err := db.QueryRow("SELECT value FROM runs_sequence WHERE id = 1").Scan(&value); err != nil {
			t.Fatalf("sequence row missing: %v", err)
		}
		if value != 0 {
			t.Errorf("initial sequence value = %d, want 0", value)
		}
	})
}

func TestRollbackMigration(t *testing.T) {
	db := migrationTestDB(t)

	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() unexpected error: %v", err)
	}

	if err := RollbackMigration(db); err != nil {
		t.Fatalf("RollbackMigration() unexpected error: %v", err)
	}

	if tableExists(t, db, "runs") {
		t.Error("runs table still present after rollback")
	}
}
