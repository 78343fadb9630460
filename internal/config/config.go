package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"artisans-hub-api/internal/repositories"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required"`
	Port        string `validate:"required,numeric"`
	LogLevel    string
	LogFormat   string `validate:"oneof=text json"`

	Store     repositories.Config
	Storage   StorageConfig
	CORS      CORSConfig
	Analysis  AnalysisConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

// StorageConfig holds uploaded image storage configuration
type StorageConfig struct {
	Type           string `validate:"oneof=local mock"`
	LocalPath      string `validate:"required"`
	URLPrefix      string `validate:"required"`
	MaxUploadBytes int    `validate:"gt=0"`
}

// CORSConfig holds the single origin browsers may call from
type CORSConfig struct {
	AllowedOrigin string `validate:"required"`
}

// AnalysisConfig holds the placeholder classification result
type AnalysisConfig struct {
	Category   string  `validate:"required"`
	Confidence float64 `validate:"gt=0,lte=1"`
}

// RedisConfig holds the product list cache configuration. An empty Addr
// disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int `validate:"gte=0"`
	TTL      time.Duration
}

// RateLimitConfig holds per-client rate limiting for server mode
type RateLimitConfig struct {
	RPS   float64 `validate:"gt=0"`
	Burst int     `validate:"gt=0"`
}

// MetricsConfig controls the Prometheus endpoint of the HTTP server
type MetricsConfig struct {
	Enabled bool
	Path    string `validate:"required,startswith=/"`
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFormat:   strings.ToLower(v.GetString("LOG_FORMAT")),
		Store: repositories.Config{
			Driver:          strings.ToLower(v.GetString("STORE_DRIVER")),
			DSN:             v.GetString("DB_CONNECTION_STRING"),
			JSONPath:        v.GetString("JSON_DATA_FILE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Storage: StorageConfig{
			Type:           strings.ToLower(v.GetString("STORAGE_TYPE")),
			LocalPath:      v.GetString("STORAGE_LOCAL_PATH"),
			URLPrefix:      v.GetString("UPLOAD_URL_PREFIX"),
			MaxUploadBytes: v.GetInt("MAX_UPLOAD_BYTES"),
		},
		CORS: CORSConfig{
			AllowedOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		},
		Analysis: AnalysisConfig{
			Category:   v.GetString("ANALYSIS_CATEGORY"),
			Confidence: v.GetFloat64("ANALYSIS_CONFIDENCE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("CACHE_TTL"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "8081")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("STORE_DRIVER", repositories.DriverSQLite)
	v.SetDefault("DB_CONNECTION_STRING", "./data/artisans_hub.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 1)
	v.SetDefault("DB_MAX_IDLE_CONNS", 1)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JSON_DATA_FILE", "./data/artisanshub_data.json")
	v.SetDefault("STORAGE_TYPE", "local")
	v.SetDefault("STORAGE_LOCAL_PATH", "./data/uploads")
	v.SetDefault("UPLOAD_URL_PREFIX", "/uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", 16<<20)
	v.SetDefault("CORS_ALLOWED_ORIGIN", "https://p-sav06.github.io")
	v.SetDefault("ANALYSIS_CATEGORY", "Handlooms")
	v.SetDefault("ANALYSIS_CONFIDENCE", 0.95)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_PATH", "/metrics")
}

// Validate checks field constraints and the store configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("invalid store configuration: %w", err)
	}
	return nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
