// Package cache keeps a copy of the product listing so repeated list
// requests skip the store. Listing creation invalidates it.
package cache

import (
	"context"

	"artisans-hub-api/internal/models"
)

// ProductCache caches the full product list.
type ProductCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context) (products []*models.Product, ok bool, err error)
	Set(ctx context.Context, products []*models.Product) error
	Invalidate(ctx context.Context) error
	Close() error
}

// Noop is a ProductCache that never holds anything.
type Noop struct{}

func (Noop) Get(ctx context.Context) ([]*models.Product, bool, error) { return nil, false, nil }
func (Noop) Set(ctx context.Context, products []*models.Product) error { return nil }
func (Noop) Invalidate(ctx context.Context) error                      { return nil }
func (Noop) Close() error                                              { return nil }
