package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/config"
	"artisans-hub-api/internal/database"
	"artisans-hub-api/internal/migration"
	"artisans-hub-api/internal/repositories"
)

func main() {
	var (
		driver   = flag.String("driver", "", "Target driver: sqlite or postgres (default from STORE_DRIVER)")
		dsn      = flag.String("dsn", "", "Target SQLite file or postgres URL (default from DB_CONNECTION_STRING)")
		jsonPath = flag.String("json", "", "Legacy JSON data file (default from JSON_DATA_FILE)")
		action   = flag.String("action", "migrate", "Action: check, migrate, validate")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		dryRun   = flag.Bool("dry-run", false, "Only check the JSON file")
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
	if *jsonPath == "" {
		*jsonPath = storeCfg.JSONPath
	}
	if storeCfg.Driver == repositories.DriverJSONFile {
		storeCfg.Driver = repositories.DriverSQLite
	}

	absJSONPath, err := filepath.Abs(*jsonPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute JSON path")
	}

	logger.WithFields(logrus.Fields{
		"driver":    storeCfg.Driver,
		"json_path": absJSONPath,
		"action":    *action,
		"dry_run":   *dryRun,
	}).Info("Starting JSON migration tool")

	switch *action {
	case "check":
		err = checkJSONFile(absJSONPath, logger)
	case "migrate":
		if *dryRun {
			logger.Info("Performing dry run - no changes will be made")
			err = checkJSONFile(absJSONPath, logger)
		} else {
			err = runMigration(&storeCfg, absJSONPath, logger)
		}
	case "validate":
		err = validateMigration(&storeCfg, absJSONPath, logger)
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: check, migrate, validate")
	}
	if err != nil {
		logger.WithError(err).Fatalf("Action %s failed", *action)
	}

	logger.Info("JSON migration tool completed successfully")
}

func checkJSONFile(jsonPath string, logger *logrus.Logger) error {
	migrator := migration.NewJSONMigrator(nil, "", jsonPath, logger)
	ok, info := migrator.CheckJSONFile()
	if !ok {
		fmt.Printf("No JSON data file found at %s\n", jsonPath)
		return nil
	}

	doc, err := migrator.LoadDocument()
	if err != nil {
		return err
	}

	fmt.Printf("Found %s\n", jsonPath)
	fmt.Printf("  Size: %d bytes, Modified: %s\n", info.Size(), info.ModTime().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Sellers: %d\n", len(doc.Sellers))
	fmt.Printf("  Products: %d\n", len(doc.Products))
	return nil
}

func runMigration(cfg *repositories.Config, jsonPath string, logger *logrus.Logger) error {
	ctx := context.Background()

	if err := database.NewMigrationManager(cfg, logger).WithBackup(true).RunMigrations(); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	migrator := migration.NewJSONMigrator(db, cfg.Driver, jsonPath, logger)
	if ok, _ := migrator.CheckJSONFile(); !ok {
		return fmt.Errorf("no JSON data file at %s", jsonPath)
	}

	result, err := migrator.MigrateFromJSON(ctx)
	if result != nil {
		fmt.Printf("\n=== Migration Results ===\n")
		fmt.Printf("Sellers processed: %d\n", result.SellersProcessed)
		fmt.Printf("Products processed: %d\n", result.ProductsProcessed)

		if len(result.Warnings) > 0 {
			fmt.Printf("\nWarnings (%d):\n", len(result.Warnings))
			for _, warning := range result.Warnings {
				fmt.Printf("  ! %s\n", warning)
			}
		}
		for _, errMsg := range result.Errors {
			fmt.Printf("  x %s\n", errMsg)
		}
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Printf("\nMigration completed successfully.\n")

	if err := migrator.ValidateMigration(ctx); err != nil {
		logger.WithError(err).Warn("Post-migration validation failed")
		return fmt.Errorf("post-migration validation failed: %w", err)
	}
	return nil
}

func validateMigration(cfg *repositories.Config, jsonPath string, logger *logrus.Logger) error {
	ctx := context.Background()

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	migrator := migration.NewJSONMigrator(db, cfg.Driver, jsonPath, logger)
	if err := migrator.ValidateMigration(ctx); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Println("Migration validation passed successfully.")
	return nil
}
