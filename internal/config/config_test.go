package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.App.Port)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadBytes)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
}

func TestLoadConfig_YAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("store:\n  driver: postgres\ndb:\n  dsn: postgres://from-yaml\nstorage:\n  upload_dir: /var/pictures\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	t.Setenv("DB_DSN", "postgres://from-env")
	t.Setenv("APP_PORT", "8080")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://from-env", cfg.DB.DSN)
	assert.Equal(t, "/var/pictures", cfg.Storage.UploadDir)
	assert.Equal(t, "8080", cfg.App.Port)
}
