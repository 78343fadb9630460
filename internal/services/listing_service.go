package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/cache"
	"artisans-hub-api/internal/models"
	"artisans-hub-api/internal/repositories"
)

// ListingService creates and lists product listings.
type ListingService interface {
	CreateListing(ctx context.Context, req *CreateListingRequest) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
}

type listingService struct {
	store     repositories.Store
	cache     cache.ProductCache
	validator *validator.Validate
	logger    *logrus.Logger
	now       func() time.Time
}

// NewListingService creates a listing service. A nil productCache disables caching.
func NewListingService(store repositories.Store, productCache cache.ProductCache, logger *logrus.Logger) ListingService {
	if productCache == nil {
		productCache = cache.Noop{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &listingService{
		store:     store,
		cache:     productCache,
		validator: newValidator(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// validate reports every missing field before anything is written.
func (s *listingService) validate(req *CreateListingRequest) (float64, error) {
	missing := make(map[string]bool)

	if err := s.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return 0, fmt.Errorf("validation failed: %w", err)
		}
		for _, fe := range verrs {
			missing[fe.Field()] = true
		}
	}
	if !req.Price.Present() {
		missing["price"] = true
	}

	if len(missing) > 0 {
		fields := make([]string, 0, len(missing))
		for _, name := range requiredFieldOrder {
			if missing[name] {
				fields = append(fields, name)
			}
		}
		return 0, &MissingFieldsError{Fields: fields}
	}

	return req.Price.Float()
}

// CreateListing finds or creates the seller by mobile and adds the product
// in one transaction. An existing seller keeps its stored name and location.
func (s *listingService) CreateListing(ctx context.Context, req *CreateListingRequest) (*models.Product, error) {
	if req == nil {
		return nil, &MissingFieldsError{Fields: append([]string(nil), requiredFieldOrder...)}
	}

	price, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	aiGenerated := true
	if req.AIGenerated != nil {
		aiGenerated = *req.AIGenerated
	}

	now := s.now()
	candidate := models.NewSeller(str(req.SellerName), str(req.SellerMobile), str(req.SellerLocation))
	candidate.CreatedAt = now

	product := models.NewProduct(0,
		strings.TrimSpace(str(req.Category)),
		strings.TrimSpace(str(req.Description)),
		price,
		strings.TrimSpace(str(req.ImageFilename)),
		aiGenerated,
	)
	product.CreatedAt = now

	seller, err := s.persistListing(ctx, candidate, product)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create listing")
		if repositories.IsValidation(err) {
			return nil, err
		}
		return nil, wrapUnavailable(err)
	}

	product.Seller = seller

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate product cache")
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"seller_id":  seller.ID,
		"category":   product.Category,
	}).Info("Listing created")

	return product, nil
}

// persistListing links product to the seller owning candidate.Mobile, creating
// the seller when none exists. Two first listings from the same new mobile can
// both miss the lookup; the loser's insert fails on the unique mobile and the
// transaction is replayed once, now finding the winner's seller.
func (s *listingService) persistListing(ctx context.Context, candidate *models.Seller, product *models.Product) (*models.Seller, error) {
	var seller *models.Seller
	var err error

	for attempt := 1; attempt <= 2; attempt++ {
		seller = nil
		err = s.store.WithTransaction(ctx, func(ctx context.Context, repos repositories.Repositories) error {
			existing, err := repos.Sellers().GetByMobile(ctx, candidate.Mobile)
			switch {
			case err == nil:
				seller = existing
				if !existing.Matches(candidate.Name, candidate.Location) {
					s.logger.WithFields(logrus.Fields{
						"seller_id": existing.ID,
					}).Info("Seller details differ from stored record; keeping stored values")
				}
			case repositories.IsNotFound(err):
				if err := repos.Sellers().Create(ctx, candidate); err != nil {
					return err
				}
				seller = candidate
			default:
				return err
			}

			product.SellerID = seller.ID
			return repos.Products().Create(ctx, product)
		})
		if err == nil || !repositories.IsDuplicate(err) {
			break
		}
		s.logger.WithField("attempt", attempt).Warn("Seller created concurrently, retrying listing")
	}
	return seller, err
}

// ListProducts serves from the cache when possible and refills it on a miss.
func (s *listingService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	products, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Product cache read failed, falling back to store")
	}
	if ok {
		return products, nil
	}

	products, err = s.store.Products().List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list products")
		return nil, wrapUnavailable(err)
	}

	if err := s.cache.Set(ctx, products); err != nil {
		s.logger.WithError(err).Warn("Failed to populate product cache")
	}
	return products, nil
}

func wrapUnavailable(err error) error {
	if errors.Is(err, repositories.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", repositories.ErrStoreUnavailable, err)
}
