package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8081" {
		t.Errorf("Port = %s, want 8081", cfg.Port)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.DSN != "./data/artisans_hub.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if !cfg.Store.AutoMigrate {
		t.Error("AutoMigrate should default to true")
	}
	if cfg.Storage.MaxUploadBytes != 16<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.Storage.MaxUploadBytes)
	}
	if cfg.CORS.AllowedOrigin != "https://p-sav06.github.io" {
		t.Errorf("AllowedOrigin = %s", cfg.CORS.AllowedOrigin)
	}
	if cfg.Analysis.Category != "Handlooms" || cfg.Analysis.Confidence != 0.95 {
		t.Errorf("Analysis = %+v", cfg.Analysis)
	}
	if cfg.Redis.Addr != "" || cfg.Redis.TTL != 5*time.Minute {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "JSONFILE")
	t.Setenv("JSON_DATA_FILE", "/var/lib/artisans/data.json")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("ANALYSIS_CATEGORY", "Pottery")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Store.Driver != "jsonfile" || cfg.Store.JSONPath != "/var/lib/artisans/data.json" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Storage.MaxUploadBytes != 1024 {
		t.Errorf("MaxUploadBytes = %d", cfg.Storage.MaxUploadBytes)
	}
	if cfg.Redis.TTL != 30*time.Second {
		t.Errorf("TTL = %v", cfg.Redis.TTL)
	}
	if cfg.Analysis.Category != "Pottery" {
		t.Errorf("Category = %s", cfg.Analysis.Category)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "STORE_DRIVER", "mongo"},
		{"unknown storage", "STORAGE_TYPE", "s3"},
		{"zero upload limit", "MAX_UPLOAD_BYTES", "0"},
		{"confidence above one", "ANALYSIS_CONFIDENCE", "1.5"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"non-numeric port", "PORT", "http"},
		{"relative metrics path", "METRICS_PATH", "metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.val)
			}
		})
	}
}

func TestAdaptConfigForServerless(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	cfg.Store.MaxOpenConns = 10

	cfg = AdaptConfigForServerless(cfg)

	if cfg.Store.DSN != "/tmp/data/artisans_hub.db" {
		t.Errorf("DSN = %s", cfg.Store.DSN)
	}
	if cfg.Store.JSONPath != "/tmp/data/artisanshub_data.json" {
		t.Errorf("JSONPath = %s", cfg.Store.JSONPath)
	}
	if cfg.Storage.LocalPath != "/tmp/data/uploads" {
		t.Errorf("LocalPath = %s", cfg.Storage.LocalPath)
	}
	if cfg.Store.MaxOpenConns != 1 {
		t.Errorf("MaxOpenConns = %d", cfg.Store.MaxOpenConns)
	}

	cfg.Store.Driver = "postgres"
	cfg.Store.DSN = "postgres://u:p@db/artisans"
	if got := AdaptConfigForServerless(cfg).Store.DSN; got != "postgres://u:p@db/artisans" {
		t.Errorf("postgres DSN rewritten to %s", got)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{Environment: "production", LogLevel: "debug"}
	logger := NewLogger(cfg)
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("production logger should use JSON, got %T", logger.Formatter)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v", logger.GetLevel())
	}

	cfg = &Config{Environment: "development", LogLevel: "loud", LogFormat: "text"}
	logger = NewLogger(cfg)
	if _, ok := logger.Formatter.(*logrus.TextFormatter); !ok {
		t.Errorf("development logger should use text, got %T", logger.Formatter)
	}
	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("unknown level should fall back to info, got %v", logger.GetLevel())
	}
}
