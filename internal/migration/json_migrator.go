package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/models"
	"artisans-hub-api/internal/repositories"
	"artisans-hub-api/internal/repositories/sqlstore"
)

// ErrTargetNotEmpty is returned when the database already holds sellers or
// products. Imported ids are preserved, so the import only runs once.
var ErrTargetNotEmpty = errors.New("target database is not empty")

// JSONMigrator imports the legacy single-file JSON store into a SQL database
type JSONMigrator struct {
	db        *sql.DB
	dialect   string
	logger    *logrus.Logger
	jsonFile  string
	backupDir string
	now       func() time.Time
}

// NewJSONMigrator creates a new JSON migrator. db may be nil for CheckJSONFile.
func NewJSONMigrator(db *sql.DB, dialect, jsonFile string, logger *logrus.Logger) *JSONMigrator {
	if logger == nil {
		logger = logrus.New()
	}
	return &JSONMigrator{
		db:        db,
		dialect:   dialect,
		logger:    logger,
		jsonFile:  jsonFile,
		backupDir: filepath.Join(filepath.Dir(jsonFile), "backup"),
		now:       time.Now,
	}
}

// JSONSeller is a seller as written by the legacy store
type JSONSeller struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Mobile    string `json:"mobile"`
	Location  string `json:"location"`
	CreatedAt string `json:"created_at"`
}

// JSONProduct is a product as written by the legacy store
type JSONProduct struct {
	ID            int64   `json:"id"`
	SellerID      int64   `json:"seller_id"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	ImageFilename string  `json:"image_filename"`
	AIGenerated   *bool   `json:"ai_generated"`
	CreatedAt     string  `json:"created_at"`
}

// JSONDocument is the whole legacy file
type JSONDocument struct {
	Sellers  []JSONSeller  `json:"sellers"`
	Products []JSONProduct `json:"products"`
}

// MigrationResult contains the results of the migration
type MigrationResult struct {
	SellersProcessed  int
	ProductsProcessed int
	Errors            []string
	Warnings          []string
}

// CheckJSONFile reports whether the legacy file exists
func (m *JSONMigrator) CheckJSONFile() (bool, os.FileInfo) {
	info, err := os.Stat(m.jsonFile)
	if err != nil || info.IsDir() {
		return false, nil
	}
	return true, info
}

// LoadDocument reads and decodes the legacy file
func (m *JSONMigrator) LoadDocument() (*JSONDocument, error) {
	data, err := os.ReadFile(m.jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", m.jsonFile, err)
	}

	doc := &JSONDocument{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", m.jsonFile, err)
	}
	return doc, nil
}

// MigrateFromJSON copies every valid seller and product into the database in
// one transaction, keeping their ids. Invalid records are skipped with a
// warning.
func (m *JSONMigrator) MigrateFromJSON(ctx context.Context) (*MigrationResult, error) {
	m.logger.Info("Starting JSON to SQL migration...")

	result := &MigrationResult{
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	doc, err := m.LoadDocument()
	if err != nil {
		return nil, err
	}

	if err := m.createJSONBackup(); err != nil {
		m.logger.WithError(err).Warn("Failed to create JSON backup")
		result.Warnings = append(result.Warnings, fmt.Sprintf("Failed to create JSON backup: %v", err))
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := m.ensureEmpty(ctx, tx); err != nil {
		return nil, err
	}

	sellerIDs, err := m.migrateSellers(ctx, tx, doc.Sellers, result)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Seller migration failed: %v", err))
		return result, fmt.Errorf("seller migration failed: %w", err)
	}

	if err := m.migrateProducts(ctx, tx, doc.Products, sellerIDs, result); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Product migration failed: %v", err))
		return result, fmt.Errorf("product migration failed: %w", err)
	}

	if m.dialect == repositories.DriverPostgres {
		if err := m.resetSequences(ctx, tx); err != nil {
			return result, err
		}
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit transaction: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"sellers":  result.SellersProcessed,
		"products": result.ProductsProcessed,
		"warnings": len(result.Warnings),
	}).Info("JSON to SQL migration completed successfully")

	return result, nil
}

func (m *JSONMigrator) ensureEmpty(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"sellers", "products"} {
		var n int64
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return fmt.Errorf("failed to count %s: %w", table, err)
		}
		if n > 0 {
			return fmt.Errorf("%w: %s has %d rows", ErrTargetNotEmpty, table, n)
		}
	}
	return nil
}

func (m *JSONMigrator) migrateSellers(ctx context.Context, tx *sql.Tx, sellers []JSONSeller, result *MigrationResult) (map[int64]bool, error) {
	query := sqlstore.Rebind(m.dialect, `
		INSERT INTO sellers (id, name, mobile, location, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	ids := make(map[int64]bool, len(sellers))
	mobiles := make(map[string]int64, len(sellers))

	for _, s := range sellers {
		seller := models.NewSeller(s.Name, s.Mobile, s.Location)
		seller.ID = s.ID

		if err := m.validateSeller(seller, ids, mobiles); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipping seller %d: %v", s.ID, err))
			continue
		}
		seller.CreatedAt = m.parseTimestamp(s.CreatedAt, fmt.Sprintf("seller %d", s.ID), result)

		if _, err := tx.ExecContext(ctx, query, seller.ID, seller.Name, seller.Mobile, seller.Location, seller.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to insert seller %d: %w", seller.ID, err)
		}

		ids[seller.ID] = true
		mobiles[seller.Mobile] = seller.ID
		result.SellersProcessed++
	}

	m.logger.WithField("count", result.SellersProcessed).Info("Sellers migrated successfully")
	return ids, nil
}

func (m *JSONMigrator) migrateProducts(ctx context.Context, tx *sql.Tx, products []JSONProduct, sellerIDs map[int64]bool, result *MigrationResult) error {
	query := sqlstore.Rebind(m.dialect, `
		INSERT INTO products (id, seller_id, category, description, price, image_filename, ai_generated, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	seen := make(map[int64]bool, len(products))

	for _, p := range products {
		aiGenerated := true
		if p.AIGenerated != nil {
			aiGenerated = *p.AIGenerated
		}
		product := models.NewProduct(p.SellerID, p.Category, p.Description, p.Price, p.ImageFilename, aiGenerated)
		product.ID = p.ID

		if err := m.validateProduct(product, seen, sellerIDs); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipping product %d: %v", p.ID, err))
			continue
		}
		product.CreatedAt = m.parseTimestamp(p.CreatedAt, fmt.Sprintf("product %d", p.ID), result)

		if _, err := tx.ExecContext(ctx, query,
			product.ID, product.SellerID, product.Category, product.Description,
			product.Price, product.ImageFilename, product.AIGenerated, product.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert product %d: %w", product.ID, err)
		}

		seen[product.ID] = true
		result.ProductsProcessed++
	}

	m.logger.WithField("count", result.ProductsProcessed).Info("Products migrated successfully")
	return nil
}

// resetSequences moves postgres id sequences past the imported ids.
func (m *JSONMigrator) resetSequences(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"sellers", "products"} {
		query := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %s",
			table, table)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to reset %s id sequence: %w", table, err)
		}
	}
	return nil
}

// Validation functions
func (m *JSONMigrator) validateSeller(seller *models.Seller, ids map[int64]bool, mobiles map[string]int64) error {
	if seller.ID <= 0 {
		return fmt.Errorf("seller ID must be positive")
	}
	if ids[seller.ID] {
		return fmt.Errorf("duplicate seller ID")
	}
	if other, ok := mobiles[seller.Mobile]; ok {
		return fmt.Errorf("mobile %s already belongs to seller %d", seller.Mobile, other)
	}
	return seller.Validate()
}

func (m *JSONMigrator) validateProduct(product *models.Product, seen, sellerIDs map[int64]bool) error {
	if product.ID <= 0 {
		return fmt.Errorf("product ID must be positive")
	}
	if seen[product.ID] {
		return fmt.Errorf("duplicate product ID")
	}
	if !sellerIDs[product.SellerID] {
		return fmt.Errorf("seller %d was not imported", product.SellerID)
	}
	return product.Validate()
}

// parseTimestamp reads a legacy created_at through models.ParseTimestamp.
// Unparseable values become now and are reported as warnings.
func (m *JSONMigrator) parseTimestamp(value, record string, result *MigrationResult) time.Time {
	if t, err := models.ParseTimestamp(value); err == nil {
		return t
	}

	result.Warnings = append(result.Warnings, fmt.Sprintf("%s has unparseable created_at %q, using current time", record, value))
	return m.now().UTC()
}

// createJSONBackup copies the legacy file into backupDir before migration
func (m *JSONMigrator) createJSONBackup() error {
	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	data, err := os.ReadFile(m.jsonFile)
	if err != nil {
		return err
	}

	timestamp := m.now().Format("20060102_150405")
	dstPath := filepath.Join(m.backupDir, fmt.Sprintf("%s_%s", timestamp, filepath.Base(m.jsonFile)))
	if err := os.WriteFile(dstPath, data, 0644); err != nil {
		return fmt.Errorf("failed to backup %s: %w", m.jsonFile, err)
	}

	m.logger.WithField("backup_file", dstPath).Info("JSON file backed up")
	return nil
}

// ValidateMigration compares database row counts with the legacy file
func (m *JSONMigrator) ValidateMigration(ctx context.Context) error {
	m.logger.Info("Validating migration results...")

	doc, err := m.LoadDocument()
	if err != nil {
		return err
	}

	var sellerCount, productCount int
	if err := m.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sellers").Scan(&sellerCount); err != nil {
		return fmt.Errorf("failed to count sellers: %w", err)
	}
	if err := m.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&productCount); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"sellers":       sellerCount,
		"products":      productCount,
		"json_sellers":  len(doc.Sellers),
		"json_products": len(doc.Products),
	}).Info("Migration validation completed")

	if sellerCount != len(doc.Sellers) || productCount != len(doc.Products) {
		return fmt.Errorf("row counts differ: database has %d sellers and %d products, file has %d and %d",
			sellerCount, productCount, len(doc.Sellers), len(doc.Products))
	}
	return nil
}
