package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/repositories"
	"artisans-hub-api/internal/repositories/docstore"
	"artisans-hub-api/internal/repositories/jsonfile"
	"artisans-hub-api/internal/repositories/sqlstore"
)

// StoreFactory opens the repositories.Store selected by configuration.
type StoreFactory struct {
	logger *logrus.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(logger *logrus.Logger) *StoreFactory {
	if logger == nil {
		logger = logrus.New()
	}
	return &StoreFactory{logger: logger}
}

// Create validates cfg, opens the backend and, for SQL drivers with
// AutoMigrate set, brings the schema up to date first.
func (f *StoreFactory) Create(ctx context.Context, cfg *repositories.Config) (repositories.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store configuration: %w", err)
	}

	log := f.logger.WithField("driver", cfg.Driver)

	switch cfg.Driver {
	case repositories.DriverSQLite, repositories.DriverPostgres:
		if cfg.AutoMigrate {
			if err := NewMigrationManager(cfg, f.logger).RunMigrations(); err != nil {
				return nil, fmt.Errorf("failed to migrate %s schema: %w", cfg.Driver, err)
			}
		}

		db, err := Open(ctx, cfg, f.logger)
		if err != nil {
			return nil, err
		}
		if err := ValidateSchema(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("schema not ready (run migrations): %w", err)
		}

		store, err := sqlstore.New(db, cfg.Driver, f.logger)
		if err != nil {
			db.Close()
			return nil, err
		}
		log.Info("SQL store ready")
		return store, nil

	case repositories.DriverJSONFile:
		store, err := jsonfile.New(cfg.JSONPath, f.logger)
		if err != nil {
			return nil, err
		}
		log.WithField("path", cfg.JSONPath).Info("JSON document store ready")
		return store, nil

	case repositories.DriverMemory:
		log.Warn("Using in-memory store; data is lost on restart")
		return docstore.NewMemory(f.logger), nil
	}

	return nil, fmt.Errorf("unsupported store driver: %q", cfg.Driver)
}
