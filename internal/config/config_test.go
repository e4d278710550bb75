package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults fill missing keys", func(t *testing.T) {
		conf, err := config.Load(writeConfig(t, "log-level: debug\n"))

		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "8080", conf.SocketPort)
		assert.Equal(t, config.StorageRedis, conf.Storage)
		assert.Equal(t, 8, conf.MoveRetries)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		t.Setenv("STORAGE", "memory")
		t.Setenv("REDIS_HOST", "cache")
		t.Setenv("REDIS_DB", "3")

		conf, err := config.Load(writeConfig(t, "storage: redis\nredis:\n  host: localhost\n"))

		require.NoError(t, err)
		assert.Equal(t, config.StorageMemory, conf.Storage)
		assert.Equal(t, "cache:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 3, conf.Redis.DB)
	})

	t.Run("Unknown storage is rejected", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "storage: sqlite\n"))

		require.Error(t, err)
	})

	t.Run("MustLoad panics on a missing file", func(t *testing.T) {
		assert.Panics(t, func() {
			config.MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}
