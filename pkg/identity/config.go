package identity

import (
	"fmt"
	"os"
)

// Config holds OpenID Connect verification parameters.
type Config struct {
	Issuer   string `toml:"issuer"`
	Audience string `toml:"audience"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Issuer   string
	Audience string
}

// Enabled reports whether token verification is configured. Without an
// issuer the service runs unauthenticated.
func (c *Config) Enabled() bool {
	return c.Issuer != ""
}

// Finalize applies environment variable overrides and validation.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.Audience != "" {
		c.Audience = overlay.Audience
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.Audience != "" {
		if v := os.Getenv(env.Audience); v != "" {
			c.Audience = v
		}
	}
}

func (c *Config) validate() error {
	if c.Issuer != "" && c.Audience == "" {
		return fmt.Errorf("audience required when issuer is set")
	}
	return nil
}
