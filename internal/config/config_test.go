package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExpandEnvWithDefaults(t *testing.T) {
	t.Setenv("TODO_CFG_SET", "from-env")
	t.Setenv("TODO_CFG_EMPTY", "")

	assert.Equal(t, "from-env", expandEnvWithDefaults("${TODO_CFG_SET:-fallback}"))
	assert.Equal(t, "fallback", expandEnvWithDefaults("${TODO_CFG_UNSET:-fallback}"))
	assert.Equal(t, "fallback", expandEnvWithDefaults("${TODO_CFG_EMPTY:-fallback}"))
	assert.Equal(t, "", expandEnvWithDefaults("${TODO_CFG_UNSET}"))
	assert.Equal(t, "host=from-env port=5432", expandEnvWithDefaults("host=${TODO_CFG_SET} port=${TODO_CFG_PORT:-5432}"))
	assert.Equal(t, "plain", expandEnvWithDefaults("plain"))
}

func TestInitConfig(t *testing.T) {
	t.Setenv("TODO_CFG_PORT", "8081")
	t.Setenv("TODO_CFG_STATIC", "true")

	path := writeFile(t, "config.yml", `
logger:
  level: debug
server:
  port: ${TODO_CFG_PORT:-5000}
  graceful_shutdown_timeout: ${TODO_CFG_SHUTDOWN:-7}
storage:
  driver: postgres
  dsn: postgres://localhost/todos
static:
  enabled: ${TODO_CFG_STATIC:-false}
`)

	cfg, err := InitConfig[Config](path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Server)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 7, cfg.Server.GracefulShutdownTimeout)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.True(t, cfg.Static.Enabled)
	assert.Nil(t, cfg.Gateway)
}

func TestInitConfig_MissingFile(t *testing.T) {
	_, err := InitConfig[Config](filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestConfig_ValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, 5, cfg.Storage.ConnectTimeout)
	assert.NotNil(t, cfg.Gateway)
	assert.False(t, cfg.Static.Enabled)
}

func TestConfig_ValidateStorage(t *testing.T) {
	cfg := &Config{Storage: &ConfigStorage{Driver: "sqlite"}}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Storage: &ConfigStorage{Driver: "postgres"}}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Storage: &ConfigStorage{Driver: " Mongo ", DSN: "mongodb://localhost"}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, StorageMongo, cfg.Storage.Driver)
	assert.Equal(t, "todos", cfg.Storage.Database)
}

func TestLoadEnv(t *testing.T) {
	require.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "absent.env")))

	path := writeFile(t, ".env", "TODO_CFG_FROM_DOTENV=loaded\n")
	t.Setenv("TODO_CFG_FROM_DOTENV", "")
	os.Unsetenv("TODO_CFG_FROM_DOTENV")

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "loaded", os.Getenv("TODO_CFG_FROM_DOTENV"))
}
