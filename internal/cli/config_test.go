package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvEncryptionKey, "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, playback.DefaultDelay, cfg.Delay)
	assert.Equal(t, domain.DefaultInput, cfg.Input)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
delay: 250ms
log_level: debug
store: redis
input: "3x3 (1, 1)"
redis:
  addr: redis:6379
  db: "2"
  ttl: 1h
http:
  port: 9090
metrics:
  enabled: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Delay)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, StoreRedis, cfg.Store)
	assert.Equal(t, "3x3 (1, 1)", cfg.Input)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB, "weakly typed")
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "courier:session:", cfg.Redis.Prefix, "unset fields keep defaults")
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "colour: blue\n"))
		assert.Error(t, err)
	})

	t.Run("unknown store", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "store: postgres\n"))
		assert.ErrorContains(t, err, "unknown store")
	})

	t.Run("negative delay", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "delay: -1s\n"))
		assert.ErrorContains(t, err, "delay")
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "delay: [\n"))
		assert.Error(t, err)
	})
}

func TestDecodeConfig_Empty(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, DecodeConfig([]byte(""), &cfg))
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_Persistent(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, StoreFile, cfg.Persistent().Store)
	assert.Equal(t, StoreMemory, cfg.Store, "receiver is a copy")

	cfg.Store = StoreRedis
	assert.Equal(t, StoreRedis, cfg.Persistent().Store)
}

func TestLoadConfig_EncryptionKeyFromEnv(t *testing.T) {
	t.Setenv(EnvEncryptionKey, "from-env")

	cfg, err := LoadConfig(writeConfig(t, "encryption_key: from-file\nfallback_keys: [old]\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.EncryptionKey)
	assert.Equal(t, []string{"old"}, cfg.FallbackKeys)
}
