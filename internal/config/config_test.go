package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, 15*time.Minute, cfg.Monitor.CacheTTL())
	assert.Equal(t, 30, cfg.Monitor.OverdueDays)
	assert.Equal(t, time.Hour, cfg.Monitor.RefreshInterval())
	assert.Equal(t, 300*time.Second, cfg.Monitor.BuildTimeout())
	assert.False(t, cfg.Backup.Enabled())
}

func TestLoadFromFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
database:
  host: db.internal
  name: monitor
jwt:
  secret: from-file
monitor:
  cache_ttl_minutes: 5
  overdue_days: 45
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("STRIPE_SECRET_KEY", "sk_env")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "override.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "monitor", cfg.Database.Name)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "sk_env", cfg.Stripe.SecretKey)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Monitor.CacheTTL())
	assert.Equal(t, 45, cfg.Monitor.OverdueDays)
}

func TestLoadFromRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", Name: "n"}
	assert.Equal(t, "postgres://u:p@h:5432/n", d.ConnectionString())

	d.SSLMode = "disable"
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", d.ConnectionString())
}
