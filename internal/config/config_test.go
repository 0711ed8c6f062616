package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum environment for a successful Load.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("DISCORD_CHANNEL_ID", "123456789012345678")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, "1280x720", cfg.DefaultSize)
	assert.Equal(t, "8", cfg.StandardSeconds)
	assert.Equal(t, "12", cfg.ProSeconds)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 20*time.Minute, cfg.PollTimeout)
	assert.Equal(t, int64(26214400), cfg.MaxAttachmentBytes)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL", "3s")
	t.Setenv("POLL_TIMEOUT", "15m")
	t.Setenv("PRO_SECONDS", "8")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Equal(t, 15*time.Minute, cfg.PollTimeout)
	assert.Equal(t, "8", cfg.ProSeconds)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_MissingDiscordToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("DISCORD_CHANNEL_ID", "123456789012345678")

	_, err := Load()
	assert.ErrorIs(t, err, ErrDiscordTokenRequired)
}

func TestLoad_MissingOpenAIKey(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DISCORD_CHANNEL_ID", "123456789012345678")

	_, err := Load()
	assert.ErrorIs(t, err, ErrOpenAIAPIKeyRequired)
}

func TestLoad_MissingChannel(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("DISCORD_CHANNEL_ID", "")
	t.Setenv("DISCORD_CHANNEL_NAME", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrChannelRequired)
}

func TestLoad_ChannelNameFallback(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("DISCORD_CHANNEL_ID", "")
	t.Setenv("DISCORD_CHANNEL_NAME", "sora")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sora", cfg.ChannelName)
}

func TestS3Enabled(t *testing.T) {
	cfg := &Config{S3Bucket: "videos", S3Region: "eu-west-1"}
	assert.True(t, cfg.S3Enabled())

	cfg = &Config{S3Bucket: "videos"}
	assert.False(t, cfg.S3Enabled())
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := &Config{
		DiscordToken:       "super-secret-token",
		OpenAIAPIKey:       "super-secret-key",
		AWSSecretAccessKey: "super-secret-aws",
		ChannelName:        "sora",
	}

	s := cfg.String()
	assert.NotContains(t, s, "super-secret-token")
	assert.NotContains(t, s, "super-secret-key")
	assert.NotContains(t, s, "super-secret-aws")
	assert.Contains(t, s, "sora")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}
