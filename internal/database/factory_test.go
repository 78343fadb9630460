package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/models"
	"artisans-hub-api/internal/repositories"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// openStores returns one freshly created store per driver that needs no
// external service.
func openStores(t *testing.T) map[string]repositories.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "store_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	configs := map[string]*repositories.Config{
		repositories.DriverSQLite: {
			Driver:       repositories.DriverSQLite,
			DSN:          filepath.Join(tempDir, "db", "test.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
		},
		repositories.DriverJSONFile: {
			Driver:   repositories.DriverJSONFile,
			JSONPath: filepath.Join(tempDir, "json", "data.json"),
		},
		repositories.DriverMemory: {
			Driver: repositories.DriverMemory,
		},
	}

	factory := NewStoreFactory(quietLogger())
	stores := make(map[string]repositories.Store)
	for name, cfg := range configs {
		store, err := factory.Create(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Create(%s) failed: %v", name, err)
		}
		t.Cleanup(func() { store.Close() })
		stores[name] = store
	}
	return stores
}

func createListing(ctx context.Context, store repositories.Store, seller *models.Seller, product *models.Product) error {
	return store.WithTransaction(ctx, func(ctx context.Context, repos repositories.Repositories) error {
		existing, err := repos.Sellers().GetByMobile(ctx, seller.Mobile)
		switch {
		case err == nil:
			*seller = *existing
		case repositories.IsNotFound(err):
			if err := repos.Sellers().Create(ctx, seller); err != nil {
				return err
			}
		default:
			return err
		}
		product.SellerID = seller.ID
		return repos.Products().Create(ctx, product)
	})
}

func TestStore_EmptyStore(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if store.Driver() != name {
				t.Errorf("Driver() = %s, want %s", store.Driver(), name)
			}
			if err := store.Health(ctx); err != nil {
				t.Errorf("Health() failed: %v", err)
			}

			products, err := store.Products().List(ctx)
			if err != nil {
				t.Fatalf("List() failed: %v", err)
			}
			if products == nil || len(products) != 0 {
				t.Errorf("List() = %v, want empty non-nil slice", products)
			}

			next, err := store.Products().NextID(ctx)
			if err != nil {
				t.Fatalf("NextID() failed: %v", err)
			}
			if next != 1 {
				t.Errorf("NextID() = %d, want 1", next)
			}

			if _, err := store.Sellers().GetByMobile(ctx, "000"); !repositories.IsNotFound(err) {
				t.Errorf("GetByMobile() error = %v, want not found", err)
			}
		})
	}
}

func TestStore_ListingWorkflow(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			first := models.NewSeller("Asha", "9876543210", "Jaipur")
			p1 := models.NewProduct(0, "Pottery", "Clay pot", 750, "a.jpeg", true)
			p1.CreatedAt = base
			if err := createListing(ctx, store, first, p1); err != nil {
				t.Fatalf("first listing failed: %v", err)
			}
			if first.ID != 1 || p1.ID != 1 {
				t.Errorf("ids = seller %d, product %d; want 1, 1", first.ID, p1.ID)
			}

			again := models.NewSeller("Asha R", "9876543210", "Udaipur")
			p2 := models.NewProduct(0, "Handlooms", "Shawl", 2400, "b.jpeg", false)
			p2.CreatedAt = base.Add(time.Second)
			if err := createListing(ctx, store, again, p2); err != nil {
				t.Fatalf("second listing failed: %v", err)
			}
			if again.ID != first.ID {
				t.Errorf("same mobile created seller %d, want reuse of %d", again.ID, first.ID)
			}
			if p2.ID != 2 {
				t.Errorf("second product id = %d, want 2", p2.ID)
			}

			other := models.NewSeller("Ravi", "9000000001", "Mysuru")
			p3 := models.NewProduct(0, "Wooden Dolls", "Doll", 600, "c.png", true)
			p3.CreatedAt = base.Add(2 * time.Second)
			if err := createListing(ctx, store, other, p3); err != nil {
				t.Fatalf("third listing failed: %v", err)
			}
			if other.ID != 2 || p3.ID != 3 {
				t.Errorf("ids = seller %d, product %d; want 2, 3", other.ID, p3.ID)
			}

			sellers, err := store.Sellers().Count(ctx)
			if err != nil || sellers != 2 {
				t.Errorf("seller Count() = %d, %v; want 2", sellers, err)
			}

			products, err := store.Products().List(ctx)
			if err != nil {
				t.Fatalf("List() failed: %v", err)
			}
			if len(products) != 3 {
				t.Fatalf("List() returned %d products, want 3", len(products))
			}

			wantOrder := []int64{3, 2, 1}
			for i, p := range products {
				if p.ID != wantOrder[i] {
					t.Errorf("products[%d].ID = %d, want %d", i, p.ID, wantOrder[i])
				}
				if p.Seller == nil || p.Seller.ID != p.SellerID {
					t.Errorf("product %d missing embedded seller", p.ID)
				}
			}

			stored := products[2]
			if stored.Seller.Name != "Asha" || stored.Seller.Location != "Jaipur" {
				t.Errorf("seller was modified: %+v", stored.Seller)
			}
			if stored.Price != 750 || stored.Category != "Pottery" || !stored.AIGenerated {
				t.Errorf("product fields not preserved: %+v", stored)
			}
			if !stored.CreatedAt.Equal(base) {
				t.Errorf("CreatedAt = %v, want %v", stored.CreatedAt, base)
			}
			if products[1].AIGenerated {
				t.Error("ai_generated=false was not preserved")
			}

			next, _ := store.Products().NextID(ctx)
			if next != 4 {
				t.Errorf("NextID() = %d, want 4", next)
			}
		})
	}
}

func TestStore_DuplicateMobile(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Sellers().Create(ctx, models.NewSeller("A", "111", "X")); err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
			err := store.Sellers().Create(ctx, models.NewSeller("B", "111", "Y"))
			if !repositories.IsDuplicate(err) {
				t.Errorf("Create() duplicate error = %v, want duplicate", err)
			}
		})
	}
}

func TestStore_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			err := store.WithTransaction(ctx, func(ctx context.Context, repos repositories.Repositories) error {
				if err := repos.Sellers().Create(ctx, models.NewSeller("A", "222", "X")); err != nil {
					return err
				}
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("WithTransaction() error = %v, want boom", err)
			}

			count, err := store.Sellers().Count(ctx)
			if err != nil {
				t.Fatalf("Count() failed: %v", err)
			}
			if count != 0 {
				t.Errorf("seller count after rollback = %d, want 0", count)
			}
		})
	}
}

func TestStore_ProductRequiresSeller(t *testing.T) {
	ctx := context.Background()
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			err := store.Products().Create(ctx, models.NewProduct(42, "Pottery", "Pot", 10, "x.jpeg", true))
			if err == nil {
				t.Error("expected error creating product for unknown seller")
			}
		})
	}
}

func TestStore_InvalidConfig(t *testing.T) {
	_, err := NewStoreFactory(quietLogger()).Create(context.Background(), &repositories.Config{Driver: "oracle"})
	if err == nil {
		t.Error("expected error for unknown driver")
	}
}
