package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/repositories"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// baseRepository holds what every table repository needs: a handle, the
// dialect used to rebind placeholders, and query logging.
type baseRepository struct {
	q       querier
	table   string
	dialect string
	logger  *logrus.Logger
}

func newBaseRepository(q querier, table, dialect string, logger *logrus.Logger) *baseRepository {
	return &baseRepository{
		q:       q,
		table:   table,
		dialect: dialect,
		logger:  logger,
	}
}

// Rebind rewrites ? placeholders to $n for postgres.
func Rebind(dialect, query string) string {
	if dialect != repositories.DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (r *baseRepository) logQuery(operation, query string, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"query":     query,
		"duration":  duration,
	}

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
		return
	}
	r.logger.WithFields(fields).Debug("Query executed")
}

func (r *baseRepository) executeQuery(ctx context.Context, operation, query string, args ...any) (*sql.Rows, error) {
	query = Rebind(r.dialect, query)

	start := time.Now()
	rows, err := r.q.QueryContext(ctx, query, args...)
	r.logQuery(operation, query, time.Since(start), err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.table, "", err)
	}
	return rows, nil
}

// scanRow runs a single-row query and scans it into dest. sql.ErrNoRows is
// returned unwrapped so callers can map it to ErrNotFound.
func (r *baseRepository) scanRow(ctx context.Context, operation, query string, args []any, dest ...any) error {
	query = Rebind(r.dialect, query)

	start := time.Now()
	err := r.q.QueryRowContext(ctx, query, args...).Scan(dest...)
	r.logQuery(operation, query, time.Since(start), err)

	return err
}

func (r *baseRepository) count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.scanRow(ctx, "count", "SELECT COUNT(*) FROM "+r.table, nil, &n); err != nil {
		return 0, repositories.NewRepositoryError("count", r.table, "", err)
	}
	return n, nil
}

// isUniqueViolation recognises unique-constraint failures from both drivers.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// isForeignKeyViolation recognises foreign-key failures from both drivers.
func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return false
}
