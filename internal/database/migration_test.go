package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"artisans-hub-api/internal/repositories"
)

func TestMigrationManager_SQLiteLifecycle(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "migration_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cfg := &repositories.Config{
		Driver:       repositories.DriverSQLite,
		DSN:          filepath.Join(tempDir, "m.db"),
		MaxOpenConns: 1,
	}
	manager := NewMigrationManager(cfg, quietLogger())

	if err := manager.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() failed: %v", err)
	}
	// Second run is a no-op.
	if err := manager.RunMigrations(); err != nil {
		t.Fatalf("second RunMigrations() failed: %v", err)
	}

	status, err := manager.GetMigrationStatus()
	if err != nil {
		t.Fatalf("GetMigrationStatus() failed: %v", err)
	}
	if status.Version != 1 || status.Dirty || !status.Applied {
		t.Errorf("status = %+v, want version 1 applied", status)
	}

	db, err := Open(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := ValidateSchema(context.Background(), db); err != nil {
		t.Errorf("ValidateSchema() failed: %v", err)
	}
	db.Close()

	if err := manager.WithBackup(true).RollbackMigration(); err != nil {
		t.Fatalf("RollbackMigration() failed: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(tempDir, "m.db.backup_*"))
	if len(matches) == 0 {
		t.Error("expected a backup file before rollback")
	}

	status, err = manager.GetMigrationStatus()
	if err != nil {
		t.Fatalf("GetMigrationStatus() failed: %v", err)
	}
	if status.Applied {
		t.Errorf("status after rollback = %+v, want nothing applied", status)
	}
}

func TestSQLitePath(t *testing.T) {
	path, err := SQLitePath("file:data/x.db?_foreign_keys=on")
	if err != nil {
		t.Fatalf("SQLitePath() failed: %v", err)
	}
	if filepath.Base(path) != "x.db" || !filepath.IsAbs(path) {
		t.Errorf("SQLitePath() = %s", path)
	}

	if _, err := SQLitePath(""); err == nil {
		t.Error("expected error for empty path")
	}
}
