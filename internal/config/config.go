// Package config loads and finalizes the service configuration from a
// base TOML file, an optional environment overlay, and environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/vigiapix/vigia/internal/scoring"
	"github.com/vigiapix/vigia/pkg/database"
	"github.com/vigiapix/vigia/pkg/identity"
	"github.com/vigiapix/vigia/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVigiaEnv             = "VIGIA_ENV"
	EnvVigiaShutdownTimeout = "VIGIA_SHUTDOWN_TIMEOUT"
	EnvVigiaVersion         = "VIGIA_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "VIGIA_DB_HOST",
	Port:            "VIGIA_DB_PORT",
	Name:            "VIGIA_DB_NAME",
	User:            "VIGIA_DB_USER",
	Password:        "VIGIA_DB_PASSWORD",
	SSLMode:         "VIGIA_DB_SSL_MODE",
	MaxOpenConns:    "VIGIA_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "VIGIA_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "VIGIA_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "VIGIA_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "VIGIA_STORAGE_CONTAINER_NAME",
	ConnectionString: "VIGIA_STORAGE_CONNECTION_STRING",
	MaxListSize:      "VIGIA_STORAGE_MAX_LIST_SIZE",
}

var scoringEnv = &scoring.Env{
	APIKey:  "VIGIA_GEMINI_API_KEY",
	Model:   "VIGIA_GEMINI_MODEL",
	Timeout: "VIGIA_GEMINI_TIMEOUT",
}

var identityEnv = &identity.Env{
	Issuer:   "VIGIA_AUTH_ISSUER",
	Audience: "VIGIA_AUTH_AUDIENCE",
}

// Config is the root configuration for the Vigia service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Scoring         scoring.Config  `toml:"scoring"`
	Identity        identity.Config `toml:"identity"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the VIGIA_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVigiaEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Scoring.Merge(&overlay.Scoring)
	c.Identity.Merge(&overlay.Identity)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Scoring.Finalize(scoringEnv); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.Identity.Finalize(identityEnv); err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvVigiaShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVigiaVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvVigiaEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
