package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cafe-directory/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+): change the working directory
// for the duration of the test and restore it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "cafes.db", cfg.DatabasePath)
	assert.Equal(t, "session", cfg.SessionCookie)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, SchemePBKDF2, cfg.PasswordScheme)
	assert.Equal(t, 600000, cfg.PBKDF2Iterations)
	assert.Equal(t, uint(1), cfg.AdminID)
	assert.False(t, cfg.ManagerRequiresAdmin)
	assert.Len(t, cfg.SessionSecret, 64, "random secret is generated when unset")
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("PASSWORD_SCHEME", "bcrypt")
	t.Setenv("MANAGER_REQUIRES_ADMIN", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "s3cret", cfg.SessionSecret)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, SchemeBcrypt, cfg.PasswordScheme)
	assert.True(t, cfg.ManagerRequiresAdmin)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			GinMode:          "test",
			PasswordScheme:   SchemePBKDF2,
			PBKDF2Iterations: 1000,
			LogFormat:        "text",
			SessionTTL:       time.Hour,
			SessionSecret:    "x",
			AdminID:          1,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown scheme", func(c *Config) { c.PasswordScheme = "md5" }},
		{"unknown gin mode", func(c *Config) { c.GinMode = "verbose" }},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
		{"zero iterations", func(c *Config) { c.PBKDF2Iterations = 0 }},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }},
		{"empty secret", func(c *Config) { c.SessionSecret = "" }},
		{"zero admin", func(c *Config) { c.AdminID = 0 }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestOpenDB_MigratesSchema(t *testing.T) {
	log := logrus.New()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&models.Cafe{}))
	assert.True(t, db.Migrator().HasTable("cafe"))
	assert.True(t, db.Migrator().HasTable("users"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}
