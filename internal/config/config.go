// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrUploadConcurrency is returned when MP3SPLIT_UPLOAD_CONCURRENCY is below 1.
	ErrUploadConcurrency = errors.New("config: MP3SPLIT_UPLOAD_CONCURRENCY must be at least 1")
	// ErrS3RegionRequired is returned when S3_BUCKET is set without S3_REGION.
	ErrS3RegionRequired = errors.New("config: S3_REGION is required when S3_BUCKET is set")
)

// Config holds all configuration for the command line tool.
type Config struct {
	// Split defaults, overridden by positional arguments and flags
	Input        string  `env:"MP3SPLIT_INPUT, default=audiofile.mp3" json:"input"`
	ChunkMinutes float64 `env:"MP3SPLIT_CHUNK_MINUTES, default=10" json:"chunk_minutes"`
	Prefix       string  `env:"MP3SPLIT_PREFIX, default=audiofile_part" json:"prefix"`
	OutputDir    string  `env:"MP3SPLIT_OUTPUT_DIR, default=mp3_chunks" json:"output_dir"`

	// Optional S3 publishing settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	S3KeyPrefix        string `env:"S3_KEY_PREFIX" json:"s3_key_prefix,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON
	UploadConcurrency  int    `env:"MP3SPLIT_UPLOAD_CONCURRENCY, default=4" json:"upload_concurrency"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.UploadConcurrency < 1 {
		return ErrUploadConcurrency
	}
	if c.S3Bucket != "" && c.S3Region == "" {
		return ErrS3RegionRequired
	}
	return nil
}

// ChunkDuration converts ChunkMinutes to a duration.
func (c *Config) ChunkDuration() time.Duration {
	return MinutesToDuration(c.ChunkMinutes)
}

// MinutesToDuration converts fractional minutes to a duration, saturating
// at the limits of time.Duration. NaN converts to zero.
func MinutesToDuration(m float64) time.Duration {
	ns := m * float64(time.Minute)
	switch {
	case math.IsNaN(ns):
		return 0
	case ns >= math.MaxInt64:
		return time.Duration(math.MaxInt64)
	case ns <= math.MinInt64:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(ns)
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// NewLogger creates a structured logger writing to w.
// When LogFormat is "json", it outputs JSON logs suitable for log
// collectors. Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(c.LogLevel)}

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Input: %s, ChunkMinutes: %g, Prefix: %s, OutputDir: %s, S3Bucket: %s, S3Region: %s, S3Endpoint: %s, UploadConcurrency: %d, LogFormat: %s, LogLevel: %s}",
		c.Input,
		c.ChunkMinutes,
		c.Prefix,
		c.OutputDir,
		c.S3Bucket,
		c.S3Region,
		c.S3Endpoint,
		c.UploadConcurrency,
		c.LogFormat,
		c.LogLevel,
	)
}

// ParseLogLevel converts a string log level to slog.Level.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
