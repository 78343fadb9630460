package repositories

import (
	"fmt"
	"time"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverJSONFile = "jsonfile"
	DriverMemory   = "memory"
)

// Config selects and configures a Store.
type Config struct {
	// Driver is one of sqlite, postgres, jsonfile or memory.
	Driver string `json:"driver" mapstructure:"driver"`

	// DSN is the sqlite file path or the postgres connection URL.
	DSN string `json:"dsn" mapstructure:"dsn"`

	// JSONPath is the document used by the jsonfile driver.
	JSONPath string `json:"json_path" mapstructure:"json_path"`

	MaxOpenConns    int           `json:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`

	// AutoMigrate applies pending schema migrations when the store opens.
	AutoMigrate bool `json:"auto_migrate" mapstructure:"auto_migrate"`
}

// DefaultConfig returns a SQLite configuration suitable for local development.
func DefaultConfig() *Config {
	return &Config{
		Driver:          DriverSQLite,
		DSN:             "./data/artisans_hub.db",
		JSONPath:        "./data/artisanshub_data.json",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		AutoMigrate:     true,
	}
}

// Validate checks the configuration for the selected driver.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
		if c.DSN == "" {
			return fmt.Errorf("database DSN is required for %s", c.Driver)
		}
		if c.MaxOpenConns <= 0 {
			return fmt.Errorf("max open connections must be greater than 0")
		}
		if c.MaxIdleConns < 0 || c.MaxIdleConns > c.MaxOpenConns {
			return fmt.Errorf("max idle connections must be between 0 and max open connections")
		}
	case DriverJSONFile:
		if c.JSONPath == "" {
			return fmt.Errorf("json data file path is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported store driver: %q", c.Driver)
	}
	return nil
}

// IsSQL reports whether the driver is backed by database/sql.
func (c *Config) IsSQL() bool {
	return c.Driver == DriverSQLite || c.Driver == DriverPostgres
}
