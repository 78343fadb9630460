package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/models"
	"artisans-hub-api/internal/repositories"
)

const sellerColumns = "id, name, mobile, location, created_at"

// SellerRepository implements repositories.SellerRepository over database/sql.
type SellerRepository struct {
	*baseRepository
}

// NewSellerRepository creates a seller repository bound to q.
func NewSellerRepository(q querier, dialect string, logger *logrus.Logger) *SellerRepository {
	return &SellerRepository{
		baseRepository: newBaseRepository(q, "sellers", dialect, logger),
	}
}

func (r *SellerRepository) GetByMobile(ctx context.Context, mobile string) (*models.Seller, error) {
	query := "SELECT " + sellerColumns + " FROM sellers WHERE mobile = ?"
	return r.getOne(ctx, "get_by_mobile", mobile, query, mobile)
}

func (r *SellerRepository) GetByID(ctx context.Context, id int64) (*models.Seller, error) {
	query := "SELECT " + sellerColumns + " FROM sellers WHERE id = ?"
	return r.getOne(ctx, "get_by_id", strconv.FormatInt(id, 10), query, id)
}

func (r *SellerRepository) getOne(ctx context.Context, operation, key, query string, args ...any) (*models.Seller, error) {
	seller := &models.Seller{}
	err := r.scanRow(ctx, operation, query, args,
		&seller.ID,
		&seller.Name,
		&seller.Mobile,
		&seller.Location,
		&seller.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NotFoundError("seller", key)
		}
		return nil, repositories.NewRepositoryError(operation, "seller", key, err)
	}

	seller.CreatedAt = seller.CreatedAt.UTC()
	return seller, nil
}

func (r *SellerRepository) Create(ctx context.Context, seller *models.Seller) error {
	if err := seller.Validate(); err != nil {
		return repositories.ValidationError("seller", err)
	}

	query := `
		INSERT INTO sellers (name, mobile, location, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`

	var id int64
	err := r.scanRow(ctx, "create", query,
		[]any{seller.Name, seller.Mobile, seller.Location, seller.CreatedAt.UTC()},
		&id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repositories.DuplicateError("seller", "mobile", seller.Mobile)
		}
		return repositories.NewRepositoryError("create", "seller", "", err)
	}

	seller.ID = id
	return nil
}

func (r *SellerRepository) List(ctx context.Context) ([]*models.Seller, error) {
	rows, err := r.executeQuery(ctx, "list", "SELECT "+sellerColumns+" FROM sellers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sellers := make([]*models.Seller, 0)
	for rows.Next() {
		seller := &models.Seller{}
		if err := rows.Scan(&seller.ID, &seller.Name, &seller.Mobile, &seller.Location, &seller.CreatedAt); err != nil {
			return nil, repositories.NewRepositoryError("list", "seller", "", err)
		}
		seller.CreatedAt = seller.CreatedAt.UTC()
		sellers = append(sellers, seller)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "seller", "", err)
	}

	return sellers, nil
}

func (r *SellerRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx)
}
