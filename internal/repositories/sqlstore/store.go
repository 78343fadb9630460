// Package sqlstore implements the repositories over database/sql for
// SQLite and PostgreSQL. Queries are written with ? placeholders and
// rebound per dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/repositories"
)

// Store implements repositories.Store on an open *sql.DB.
type Store struct {
	db      *sql.DB
	dialect string
	logger  *logrus.Logger

	sellers  *SellerRepository
	products *ProductRepository
}

// New wraps db. dialect is repositories.DriverSQLite or repositories.DriverPostgres.
// The schema must already be migrated.
func New(db *sql.DB, dialect string, logger *logrus.Logger) (*Store, error) {
	if dialect != repositories.DriverSQLite && dialect != repositories.DriverPostgres {
		return nil, fmt.Errorf("unsupported sql dialect: %q", dialect)
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Store{
		db:       db,
		dialect:  dialect,
		logger:   logger,
		sellers:  NewSellerRepository(db, dialect, logger),
		products: NewProductRepository(db, dialect, logger),
	}, nil
}

func (s *Store) Sellers() repositories.SellerRepository {
	return s.sellers
}

func (s *Store) Products() repositories.ProductRepository {
	return s.products
}

func (s *Store) Driver() string {
	return s.dialect
}

// DB exposes the underlying handle for tooling such as the JSON importer.
func (s *Store) DB() *sql.DB {
	return s.db
}

type txRepositories struct {
	sellers  *SellerRepository
	products *ProductRepository
}

func (t *txRepositories) Sellers() repositories.SellerRepository   { return t.sellers }
func (t *txRepositories) Products() repositories.ProductRepository { return t.products }

// WithTransaction runs fn against repositories bound to a single *sql.Tx.
func (s *Store) WithTransaction(ctx context.Context, fn repositories.TxFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.WithError(err).Error("Failed to begin transaction")
		return repositories.TransactionError("begin", err)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	repos := &txRepositories{
		sellers:  NewSellerRepository(tx, s.dialect, s.logger),
		products: NewProductRepository(tx, s.dialect, s.logger),
	}

	if err := fn(ctx, repos); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			s.logger.WithError(rollbackErr).Error("Failed to rollback transaction after error")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.WithError(err).Error("Failed to commit transaction")
		return repositories.TransactionError("commit", err)
	}
	s.logger.Debug("Transaction committed")
	return nil
}

func (s *Store) Health(ctx context.Context) error {
	if s.db == nil {
		return repositories.ConnectionError(fmt.Errorf("no database handle"))
	}
	if err := s.db.PingContext(ctx); err != nil {
		return repositories.ConnectionError(err)
	}

	var result int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return repositories.ConnectionError(err)
	}
	if result != 1 {
		return repositories.ConnectionError(fmt.Errorf("unexpected health query result %d", result))
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
