package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://localhost:8081/api", cfg.API.BaseURL)
	assert.Equal(t, "cookie", cfg.Session.Storage)
	assert.Equal(t, "memory", cfg.Drafts.Store)
	assert.Equal(t, 24*time.Hour, cfg.Drafts.TTL)
	assert.True(t, cfg.UsesDefaultSecret())
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
server:
  port: "9000"
api:
  base_url: "https://api.example.com/api/"
session:
  storage: "postgres"
database:
  host: "db.example.com"
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0644))

	t.Setenv("APP_PORT", "9100")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port, "env must override yaml")
	assert.Equal(t, "https://api.example.com/api", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, "postgres", cfg.Session.Storage)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
}

func TestLoad_RejectsUnknownStorage(t *testing.T) {
	t.Setenv("SESSION_STORAGE", "localstorage")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown session storage")
}

func TestLoad_RejectsRelativeAPIURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "/api")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	t.Setenv("SESSION_SECRET", "a-real-secret")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.UsesDefaultSecret())
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5433 user=u password=p dbname=n sslmode=disable", d.ConnectionString())
}
