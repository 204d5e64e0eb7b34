package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "LEXSUM"

// Load reads configuration in precedence order: defaults, then an
// optional lexsum.yaml (working directory or /etc/lexsum), then
// LEXSUM_* environment variables (LEXSUM_SERVER_PORT=9000 overrides
// server.port).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("lexsum")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/lexsum")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file is fine; defaults plus env carry the day.
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := resolveSummarizerKey(&cfg.Summarizer); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveSummarizerKey applies the explicit-key-then-mounted-secret
// fallback for the summarization backend credential.
func resolveSummarizerKey(cfg *SummarizerConfig) error {
	if cfg.APIKey != "" || cfg.APIKeyFile == "" {
		return nil
	}
	key, err := os.ReadFile(cfg.APIKeyFile)
	if err != nil {
		return fmt.Errorf("read summarizer api key file: %w", err)
	}
	cfg.APIKey = strings.TrimSpace(string(key))
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_upload_bytes", int64(32<<20))

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.force_path_style", false)

	v.SetDefault("queue.url", "")
	v.SetDefault("queue.region", "")
	v.SetDefault("queue.endpoint", "")
	v.SetDefault("queue.max_messages", 10)
	v.SetDefault("queue.wait_time_seconds", 20)

	v.SetDefault("summarizer.api_key", "")
	v.SetDefault("summarizer.api_key_file", "")
	v.SetDefault("summarizer.base_url", "")
	v.SetDefault("summarizer.model", "gpt-3.5-turbo")
	v.SetDefault("summarizer.rate_limit", 0.0)
	v.SetDefault("summarizer.chunk_size", 2000)
	v.SetDefault("summarizer.chunk_overlap", 200)

	v.SetDefault("worker.staging_dir", "")

	v.SetDefault("cache.ttl", 24*time.Hour)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "STRUCTURED")
}
