package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/config"
	"artisans-hub-api/internal/database"
	"artisans-hub-api/internal/repositories"
)

func main() {
	var (
		driver  = flag.String("driver", "", "Store driver: sqlite or postgres (default from STORE_DRIVER)")
		dsn     = flag.String("dsn", "", "SQLite file path or postgres URL (default from DB_CONNECTION_STRING)")
		action  = flag.String("action", "up", "Migration action: up, down, status, validate")
		backup  = flag.Bool("backup", true, "Back up the SQLite file before changing the schema")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	storeCfg := cfg.Store
	if *driver != "" {
		storeCfg.Driver = *driver
	}
	if *dsn != "" {
		storeCfg.DSN = *dsn
	}
	if !storeCfg.IsSQL() {
		logger.WithField("driver", storeCfg.Driver).Fatal("Migrations only apply to sqlite and postgres stores")
	}

	logger.WithFields(logrus.Fields{
		"driver": storeCfg.Driver,
		"action": *action,
	}).Info("Starting migration tool")

	manager := database.NewMigrationManager(&storeCfg, logger).WithBackup(*backup)

	switch *action {
	case "up":
		err = manager.RunMigrations()
	case "down":
		err = manager.RollbackMigration()
	case "status":
		err = showMigrationStatus(manager)
	case "validate":
		err = validateSchema(&storeCfg, logger)
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: up, down, status, validate")
	}
	if err != nil {
		logger.WithError(err).Fatalf("Migration %s failed", *action)
	}

	logger.Info("Migration tool completed successfully")
}

func showMigrationStatus(manager *database.MigrationManager) error {
	status, err := manager.GetMigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Printf("Migration Status:\n")
	fmt.Printf("  Version: %d\n", status.Version)
	fmt.Printf("  Applied: %t\n", status.Applied)
	fmt.Printf("  Dirty: %t\n", status.Dirty)
	fmt.Printf("  Timestamp: %s\n", status.Timestamp.Format("2006-01-02 15:04:05"))

	return nil
}

func validateSchema(cfg *repositories.Config, logger *logrus.Logger) error {
	ctx := context.Background()
	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.ValidateSchema(ctx, db); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	fmt.Println("Schema validation passed successfully")
	return nil
}
