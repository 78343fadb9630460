package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/models"
)

// ProductsKey holds the JSON-encoded product list.
const ProductsKey = "artisanshub:products"

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// redisClient is the subset of *redis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// RedisCache is a ProductCache stored in Redis under ProductsKey.
type RedisCache struct {
	client redisClient
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(ctx context.Context, opts RedisOptions, logger *logrus.Logger) (*RedisCache, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.WithField("addr", opts.Addr).Info("Connected to Redis")
	return newRedisCache(client, opts.TTL, logger), nil
}

func newRedisCache(client redisClient, ttl time.Duration, logger *logrus.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context) ([]*models.Product, bool, error) {
	data, err := c.client.Get(ctx, ProductsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", ProductsKey, err)
	}

	var products []*models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, fmt.Errorf("decode cached products: %w", err)
	}
	if products == nil {
		products = make([]*models.Product, 0)
	}
	return products, true, nil
}

func (c *RedisCache) Set(ctx context.Context, products []*models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	if err := c.client.Set(ctx, ProductsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", ProductsKey, err)
	}
	c.logger.WithFields(logrus.Fields{
		"key":   ProductsKey,
		"count": len(products),
		"ttl":   c.ttl,
	}).Debug("Cached product list")
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, ProductsKey).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", ProductsKey, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
