// Package config loads runtime settings from the environment and opens the
// SQLite store used by the rest of the application.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Password hashing schemes accepted by PASSWORD_SCHEME.
const (
	SchemePBKDF2 = "pbkdf2"
	SchemeBcrypt = "bcrypt"
)

// Config holds runtime settings for the cafe directory server.
type Config struct {
	Port    string `env:"PORT,default=8080"`
	GinMode string `env:"GIN_MODE,default=debug"`

	DatabasePath string `env:"DATABASE_PATH,default=cafes.db"`

	// SessionSecret signs session tokens. A random secret is generated when
	// empty, which logs everybody out on restart.
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionCookie string        `env:"SESSION_COOKIE,default=session"`
	SessionTTL    time.Duration `env:"SESSION_TTL,default=24h"`
	CookieSecure  bool          `env:"COOKIE_SECURE,default=false"`

	PasswordScheme   string `env:"PASSWORD_SCHEME,default=pbkdf2"`
	PBKDF2Iterations int    `env:"PBKDF2_ITERATIONS,default=600000"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`

	AdminID              uint `env:"ADMIN_ID,default=1"`
	ManagerRequiresAdmin bool `env:"MANAGER_REQUIRES_ADMIN,default=false"`
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if cfg.SessionSecret == "" {
		secret, err := randomSecret(32)
		if err != nil {
			return nil, err
		}
		cfg.SessionSecret = secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.PasswordScheme {
	case SchemePBKDF2, SchemeBcrypt:
	default:
		return fmt.Errorf("unknown PASSWORD_SCHEME %q", c.PasswordScheme)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown GIN_MODE %q", c.GinMode)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	if c.PBKDF2Iterations <= 0 {
		return errors.New("PBKDF2_ITERATIONS must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET must not be empty")
	}
	if c.AdminID == 0 {
		return errors.New("ADMIN_ID must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func randomSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
