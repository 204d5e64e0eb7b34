package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("LoadDefaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8000, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.Equal(t, 0, cfg.Redis.DB)

		assert.Equal(t, int32(10), cfg.Queue.MaxMessages)
		assert.Equal(t, int32(20), cfg.Queue.WaitTimeSeconds)

		assert.Equal(t, "gpt-3.5-turbo", cfg.Summarizer.Model)
		assert.Equal(t, 2000, cfg.Summarizer.ChunkSize)
		assert.Equal(t, 200, cfg.Summarizer.ChunkOverlap)

		assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)

		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "STRUCTURED", cfg.Logging.Profile)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("LEXSUM_SERVER_PORT", "9000")
		t.Setenv("LEXSUM_REDIS_ADDR", "redis.internal:6380")
		t.Setenv("LEXSUM_S3_BUCKET", "lexsum-uploads")
		t.Setenv("LEXSUM_CACHE_TTL", "1h")
		t.Setenv("LEXSUM_LOGGING_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
		assert.Equal(t, "lexsum-uploads", cfg.S3.Bucket)
		assert.Equal(t, time.Hour, cfg.Cache.TTL)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})
}

func TestResolveSummarizerKey(t *testing.T) {
	t.Run("explicit key wins", func(t *testing.T) {
		cfg := SummarizerConfig{APIKey: "sk-explicit", APIKeyFile: "/nonexistent"}
		require.NoError(t, resolveSummarizerKey(&cfg))
		assert.Equal(t, "sk-explicit", cfg.APIKey)
	})

	t.Run("falls back to key file", func(t *testing.T) {
		keyPath := filepath.Join(t.TempDir(), "api-key")
		require.NoError(t, os.WriteFile(keyPath, []byte("sk-from-file\n"), 0600))

		cfg := SummarizerConfig{APIKeyFile: keyPath}
		require.NoError(t, resolveSummarizerKey(&cfg))
		assert.Equal(t, "sk-from-file", cfg.APIKey)
	})

	t.Run("missing key file errors", func(t *testing.T) {
		cfg := SummarizerConfig{APIKeyFile: filepath.Join(t.TempDir(), "absent")}
		assert.Error(t, resolveSummarizerKey(&cfg))
	})

	t.Run("no key configured is allowed", func(t *testing.T) {
		cfg := SummarizerConfig{}
		require.NoError(t, resolveSummarizerKey(&cfg))
		assert.Empty(t, cfg.APIKey)
	})
}
