package repositories

import (
	"context"

	"artisans-hub-api/internal/models"
)

// SellerRepository stores sellers. Sellers are created once and never updated.
type SellerRepository interface {
	// GetByMobile returns ErrNotFound when no seller uses mobile.
	GetByMobile(ctx context.Context, mobile string) (*models.Seller, error)

	GetByID(ctx context.Context, id int64) (*models.Seller, error)

	// Create assigns seller.ID. A second seller with the same mobile
	// yields ErrDuplicateEntry.
	Create(ctx context.Context, seller *models.Seller) error

	// List returns sellers in id order.
	List(ctx context.Context) ([]*models.Seller, error)

	Count(ctx context.Context) (int64, error)
}

// ProductRepository stores product listings.
type ProductRepository interface {
	// Create assigns product.ID. The referenced seller must exist.
	Create(ctx context.Context, product *models.Product) error

	// List returns every product newest first with its seller attached.
	List(ctx context.Context) ([]*models.Product, error)

	Count(ctx context.Context) (int64, error)

	// NextID reports the id the next Create will assign.
	NextID(ctx context.Context) (int64, error)
}

// Repositories groups the repositories that share one unit of work.
type Repositories interface {
	Sellers() SellerRepository
	Products() ProductRepository
}

// Store is a configured backend. Work passed to WithTransaction either
// commits as a whole or leaves the store unchanged.
type Store interface {
	Repositories

	WithTransaction(ctx context.Context, fn TxFunc) error

	// Health checks that the backend is reachable.
	Health(ctx context.Context) error

	// Driver names the backend, e.g. "sqlite".
	Driver() string

	Close() error
}
