package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/repositories"
)

// sqliteOptions are appended to every SQLite DSN.
const sqliteOptions = "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"

// Open connects to the SQL backend named by cfg.Driver and configures the pool.
// It does not run migrations.
func Open(ctx context.Context, cfg *repositories.Config, logger *logrus.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = logrus.New()
	}

	var (
		driverName string
		dsn        string
	)

	switch cfg.Driver {
	case repositories.DriverSQLite:
		absPath, err := SQLitePath(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		driverName = "sqlite3"
		dsn = absPath + "?" + sqliteOptions
	case repositories.DriverPostgres:
		driverName = "postgres"
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", cfg.Driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	logger.WithFields(logrus.Fields{
		"driver":         cfg.Driver,
		"max_open_conns": maxOpen,
	}).Info("Database connection established")

	return db, nil
}

// SQLitePath resolves the file path of a SQLite DSN, dropping any query string.
func SQLitePath(dsn string) (string, error) {
	path, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	if path == "" {
		return "", fmt.Errorf("sqlite database path is required")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute database path: %w", err)
	}
	return absPath, nil
}
