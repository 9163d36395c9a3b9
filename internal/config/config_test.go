package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "clinic_records", cfg.Database.Name)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "clinic-records.changes", cfg.Redis.Channel)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 20.0, cfg.RateLimit.RPS)
	assert.Equal(t, "America/Sao_Paulo", cfg.Clinic.Timezone)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clinic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
database:
  host: db.internal
  max_open_conns: 50
session:
  ttl: 10m
redis:
  url: redis://cache:6379/0
`), 0o600))

	t.Setenv("CLINIC_DATABASE_PASSWORD", "s3cret")
	t.Setenv("CLINIC_DATABASE_MAX_OPEN_CONNS", "80")
	t.Setenv("CLINIC_AUTH_JWT_SECRET", "signing-key")
	t.Setenv("CLINIC_LOG_LEVEL", "debug")
	t.Setenv("CLINIC_RATELIMIT_ENABLED", "false")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 80, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "redis://cache:6379/0", cfg.Redis.URL)
	assert.Equal(t, "signing-key", cfg.Auth.JWTSecret)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CLINIC_CLINIC_TIMEZONE", "Mars/Olympus")
	t.Setenv("CLINIC_SERVER_PORT", "0")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "Mars/Olympus")
}

func TestLocation(t *testing.T) {
	cfg := &Config{Clinic: ClinicConfig{Timezone: "America/Sao_Paulo"}}
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())

	cfg.Clinic.Timezone = "bogus"
	assert.Equal(t, time.UTC, cfg.Location())
}
