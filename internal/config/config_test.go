package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndEnvOverride(t *testing.T) {
	t.Setenv("AUTH_SECRET", "env-secret")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.Secret)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "1h", cfg.Auth.AccessTokenExpiration)
	assert.Equal(t, "fringe.app", cfg.Auth.Issuer)
	assert.Equal(t, "uploads", cfg.Storage.BasePath)
	assert.Empty(t, cfg.Realtime.URL, "in-process broker by default")
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("AUTH_SECRET", "placeholder")
	os.Unsetenv("AUTH_SECRET")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
auth:
  secret: file-secret
database:
  dbname: fringe_test
realtime:
  url: ws://localhost:4000/changes
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "file-secret", cfg.Auth.Secret)
	assert.Equal(t, "fringe_test", cfg.Database.DBName)
	assert.Equal(t, "ws://localhost:4000/changes", cfg.Realtime.URL)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg.Database.User = "fringe"
	cfg.Database.Password = "pw"
	cfg.Database.DBName = "fringe"
	assert.Contains(t, cfg.GetPostgresConnectionString(), "dbname=fringe")
}
