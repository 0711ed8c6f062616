// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrDiscordTokenRequired is returned when DISCORD_TOKEN is not set.
	ErrDiscordTokenRequired = errors.New("config: DISCORD_TOKEN is required")
	// ErrOpenAIAPIKeyRequired is returned when OPENAI_API_KEY is not set.
	ErrOpenAIAPIKeyRequired = errors.New("config: OPENAI_API_KEY is required")
	// ErrChannelRequired is returned when neither DISCORD_CHANNEL_ID nor
	// DISCORD_CHANNEL_NAME is set.
	ErrChannelRequired = errors.New("config: DISCORD_CHANNEL_ID or DISCORD_CHANNEL_NAME is required")
)

// Config holds all configuration for the application.
type Config struct {
	// Discord settings
	DiscordToken string `env:"DISCORD_TOKEN, required" json:"-"` // Masked in JSON
	// ChannelID is the stable identifier of the only channel the bot
	// accepts commands in. Preferred over ChannelName, which survives as a
	// fallback for installations configured before IDs were supported.
	ChannelID   string `env:"DISCORD_CHANNEL_ID" json:"discord_channel_id,omitempty"`
	ChannelName string `env:"DISCORD_CHANNEL_NAME" json:"discord_channel_name,omitempty"`

	// OpenAI settings
	OpenAIAPIKey  string `env:"OPENAI_API_KEY, required" json:"-"` // Masked in JSON
	OpenAIBaseURL string `env:"OPENAI_BASE_URL, default=https://api.openai.com/v1" json:"openai_base_url"`

	// Generation defaults
	DefaultSize     string `env:"DEFAULT_SIZE, default=1280x720" json:"default_size"`
	StandardSeconds string `env:"STANDARD_SECONDS, default=8" json:"standard_seconds"`
	ProSeconds      string `env:"PRO_SECONDS, default=12" json:"pro_seconds"`

	// Tracking settings
	PollInterval time.Duration `env:"POLL_INTERVAL, default=5s" json:"poll_interval"`
	PollTimeout  time.Duration `env:"POLL_TIMEOUT, default=20m" json:"poll_timeout"`

	// Delivery settings
	MaxAttachmentBytes int64 `env:"MAX_ATTACHMENT_BYTES, default=26214400" json:"max_attachment_bytes"`

	// Optional archive settings
	ArchiveDir         string `env:"ARCHIVE_DIR" json:"archive_dir,omitempty"`
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 archive configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig.
// It returns an error if required variables are not set.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		// Map envconfig errors to our domain errors for required fields
		if strings.Contains(err.Error(), "DISCORD_TOKEN") {
			return nil, ErrDiscordTokenRequired
		}
		if strings.Contains(err.Error(), "OPENAI_API_KEY") {
			return nil, ErrOpenAIAPIKeyRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return ErrDiscordTokenRequired
	}
	if c.OpenAIAPIKey == "" {
		return ErrOpenAIAPIKeyRequired
	}
	if c.ChannelID == "" && c.ChannelName == "" {
		return ErrChannelRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{ChannelID: %s, ChannelName: %s, OpenAIBaseURL: %s, DefaultSize: %s, StandardSeconds: %s, ProSeconds: %s, PollInterval: %s, PollTimeout: %s, MaxAttachmentBytes: %d, ArchiveDir: %s, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.ChannelID,
		c.ChannelName,
		c.OpenAIBaseURL,
		c.DefaultSize,
		c.StandardSeconds,
		c.ProSeconds,
		c.PollInterval,
		c.PollTimeout,
		c.MaxAttachmentBytes,
		c.ArchiveDir,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
