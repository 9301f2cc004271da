package auth

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	MinSecretLength   = 32
)

type Config struct {
	JWTSecret  string
	SessionTTL time.Duration
	// RedisAddr enables the redis revocation store. Empty keeps revoked
	// token ids in process memory.
	RedisAddr     string
	RedisPassword string
	// AdminEmail and AdminPasswordHash seed an admin author on startup when
	// the live store has none with that email.
	AdminEmail        string
	AdminPasswordHash string
}

func LoadEnv() (*Config, error) {
	cfg := &Config{
		JWTSecret:         os.Getenv("JWT_SECRET"),
		SessionTTL:        DefaultSessionTTL,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		AdminEmail:        strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", raw, err)
		}
		cfg.SessionTTL = ttl
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", MinSecretLength)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if (c.AdminEmail == "") != (c.AdminPasswordHash == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD_HASH must be set together")
	}
	return nil
}
