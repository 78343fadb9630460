package sqlstore

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/models"
	"artisans-hub-api/internal/repositories"
)

// ProductRepository implements repositories.ProductRepository over database/sql.
type ProductRepository struct {
	*baseRepository
}

// NewProductRepository creates a product repository bound to q.
func NewProductRepository(q querier, dialect string, logger *logrus.Logger) *ProductRepository {
	return &ProductRepository{
		baseRepository: newBaseRepository(q, "products", dialect, logger),
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return repositories.ValidationError("product", err)
	}

	query := `
		INSERT INTO products (
			seller_id, category, description, price,
			image_filename, ai_generated, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	var id int64
	err := r.scanRow(ctx, "create", query,
		[]any{
			product.SellerID,
			product.Category,
			product.Description,
			product.Price,
			product.ImageFilename,
			product.AIGenerated,
			product.CreatedAt.UTC(),
		},
		&id,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repositories.NotFoundError("seller", strconv.FormatInt(product.SellerID, 10))
		}
		return repositories.NewRepositoryError("create", "product", "", err)
	}

	product.ID = id
	return nil
}

// List joins each product to its seller; a missing seller row leaves Seller nil.
func (r *ProductRepository) List(ctx context.Context) ([]*models.Product, error) {
	query := `
		SELECT p.id, p.seller_id, p.category, p.description, p.price,
			   p.image_filename, p.ai_generated, p.created_at,
			   s.id, s.name, s.mobile, s.location, s.created_at
		FROM products p
		LEFT JOIN sellers s ON s.id = p.seller_id
		ORDER BY p.created_at DESC, p.id DESC`

	rows, err := r.executeQuery(ctx, "list", query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		var (
			p              models.Product
			sellerID       sql.NullInt64
			sellerName     sql.NullString
			sellerMobile   sql.NullString
			sellerLocation sql.NullString
			sellerCreated  sql.NullTime
		)

		if err := rows.Scan(
			&p.ID,
			&p.SellerID,
			&p.Category,
			&p.Description,
			&p.Price,
			&p.ImageFilename,
			&p.AIGenerated,
			&p.CreatedAt,
			&sellerID,
			&sellerName,
			&sellerMobile,
			&sellerLocation,
			&sellerCreated,
		); err != nil {
			return nil, repositories.NewRepositoryError("list", "product", "", err)
		}

		p.CreatedAt = p.CreatedAt.UTC()
		if sellerID.Valid {
			p.Seller = &models.Seller{
				ID:        sellerID.Int64,
				Name:      sellerName.String,
				Mobile:    sellerMobile.String,
				Location:  sellerLocation.String,
				CreatedAt: sellerCreated.Time.UTC(),
			}
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("list", "product", "", err)
	}

	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx)
}

func (r *ProductRepository) NextID(ctx context.Context) (int64, error) {
	var next int64
	if err := r.scanRow(ctx, "next_id", "SELECT COALESCE(MAX(id), 0) + 1 FROM products", nil, &next); err != nil {
		return 0, repositories.NewRepositoryError("next_id", "product", "", err)
	}
	return next, nil
}
