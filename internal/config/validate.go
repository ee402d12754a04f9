package config

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be > 0 (got %s)", c.Auth.SessionTTL)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d (got %d)", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range (got %d)", c.Server.Port)
	}
	if c.Server.CleanupInterval <= 0 {
		return fmt.Errorf("server.cleanup_interval must be > 0 (got %s)", c.Server.CleanupInterval)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}

	if c.RateLimit.AuthLimit <= 0 || c.RateLimit.AuthWindow <= 0 {
		return fmt.Errorf("ratelimit: auth limit and window must be > 0")
	}
	if c.RateLimit.PublicLimit <= 0 || c.RateLimit.PublicWindow <= 0 {
		return fmt.Errorf("ratelimit: public limit and window must be > 0")
	}
	return nil
}

// EmailEnabled reports whether outbound email is configured.
func (c *Config) EmailEnabled() bool {
	return c.Email.ServerToken != ""
}
