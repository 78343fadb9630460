package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/adapters/storage"
	"artisans-hub-api/internal/cache"
	"artisans-hub-api/internal/config"
	"artisans-hub-api/internal/database"
	"artisans-hub-api/internal/ingest"
	"artisans-hub-api/internal/oracle"
	"artisans-hub-api/internal/repositories"
	"artisans-hub-api/internal/services"
)

const startupTimeout = 10 * time.Second

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Store  repositories.Store
	Images storage.FileStorage
	Cache  cache.ProductCache

	ListingService  services.ListingService
	AnalysisService services.AnalysisService
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithLogger(cfg, config.NewLogger(cfg))
}

// NewContainerWithLogger creates a container that logs through logger.
func NewContainerWithLogger(cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	container := &Container{Config: cfg, Logger: logger}

	store, err := database.NewStoreFactory(logger).Create(ctx, &cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	container.Store = store

	images, err := storage.DefaultFactory().Create(&storage.StorageConfig{
		Type:     cfg.Storage.Type,
		BasePath: cfg.Storage.LocalPath,
	})
	if err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to create image storage: %w", err)
	}
	container.Images = images

	container.Cache = newProductCache(ctx, cfg, logger)

	container.ListingService = services.NewListingService(store, container.Cache, logger)
	container.AnalysisService = services.NewAnalysisService(
		ingest.New(images, cfg.Storage.MaxUploadBytes, logger),
		oracle.New(),
		services.AnalysisConfig{
			Category:   cfg.Analysis.Category,
			Confidence: cfg.Analysis.Confidence,
		},
		logger,
	)

	logger.WithFields(logrus.Fields{
		"store":   store.Driver(),
		"storage": cfg.Storage.Type,
		"cache":   cfg.Redis.Addr != "",
	}).Info("Container initialized")

	return container, nil
}

// newProductCache connects to redis when configured. An unreachable redis
// disables caching rather than failing startup.
func newProductCache(ctx context.Context, cfg *config.Config, logger *logrus.Logger) cache.ProductCache {
	if cfg.Redis.Addr == "" {
		return cache.Noop{}
	}

	redisCache, err := cache.NewRedisCache(ctx, cache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.TTL,
	}, logger)
	if err != nil {
		logger.WithError(err).Warn("Product cache disabled")
		return cache.Noop{}
	}
	return redisCache
}

// Close cleans up all resources
func (c *Container) Close() error {
	var errs []error

	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
		}
	}
	if c.Images != nil {
		if err := c.Images.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close image storage: %w", err))
		}
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}

	return errors.Join(errs...)
}
