// Package config loads pipeline configuration from defaults, an
// optional lexsum.yaml, and LEXSUM_* environment overrides.
package config

import "time"

// Config is the full process configuration for both the server and the
// worker.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Redis      RedisConfig      `mapstructure:"redis"`
	S3         S3Config         `mapstructure:"s3"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig configures the HTTP gateway.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxUploadBytes caps multipart upload size.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// RedisConfig configures the shared job store and summary cache
// backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// S3Config configures the blob store.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	Profile         string `mapstructure:"profile"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	ForcePathStyle  bool   `mapstructure:"force_path_style"`
}

// QueueConfig configures the SQS transport.
type QueueConfig struct {
	URL             string `mapstructure:"url"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	MaxMessages     int32  `mapstructure:"max_messages"`
	WaitTimeSeconds int32  `mapstructure:"wait_time_seconds"`
}

// SummarizerConfig configures the summarization backend.
type SummarizerConfig struct {
	// APIKey is the backend API key. Takes precedence over APIKeyFile.
	APIKey string `mapstructure:"api_key"`

	// APIKeyFile points at a mounted secret holding the key, used when
	// APIKey is not set directly.
	APIKeyFile string `mapstructure:"api_key_file"`

	BaseURL      string  `mapstructure:"base_url"`
	Model        string  `mapstructure:"model"`
	RateLimit    float64 `mapstructure:"rate_limit"`
	ChunkSize    int     `mapstructure:"chunk_size"`
	ChunkOverlap int     `mapstructure:"chunk_overlap"`
}

// WorkerConfig configures the queue consumer.
type WorkerConfig struct {
	// StagingDir is the base directory for per-job staging. Empty uses
	// the OS temp dir.
	StagingDir string `mapstructure:"staging_dir"`
}

// CacheConfig configures the summary cache.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LoggingConfig configures process logging.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Profile string `mapstructure:"profile"`
}
