// Package bootstrap provides dependency initialization for the bot.
package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/videobridge/sorabridge/internal/bridge"
	"github.com/videobridge/sorabridge/internal/config"
	"github.com/videobridge/sorabridge/internal/sora"
	"github.com/videobridge/sorabridge/internal/storage"
	"github.com/videobridge/sorabridge/internal/tracker"
)

// Dependencies holds all initialized dependencies for the application.
type Dependencies struct {
	Bot *bridge.Bot
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	// Validate the client configuration once up front; the per-job session
	// factory below reuses the same values.
	if _, err := sora.NewClient(cfg.OpenAIAPIKey, sora.WithBaseURL(cfg.OpenAIBaseURL)); err != nil {
		return nil, fmt.Errorf("create sora client: %w", err)
	}

	// Each tracking task gets its own session so concurrent jobs never
	// share connection state, and idle connections are released when the
	// task ends.
	newSession := func() (sora.Client, func()) {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		client, _ := sora.NewClient(cfg.OpenAIAPIKey,
			sora.WithBaseURL(cfg.OpenAIBaseURL),
			sora.WithHTTPClient(&http.Client{
				Timeout:   60 * time.Second,
				Transport: transport,
			}),
		)
		return client, transport.CloseIdleConnections
	}

	trackerOpts := []tracker.Option{
		tracker.WithPollInterval(cfg.PollInterval),
		tracker.WithPollTimeout(cfg.PollTimeout),
	}

	archiver, err := initArchiver(cfg, logger)
	if err != nil {
		return nil, err
	}
	if archiver != nil {
		trackerOpts = append(trackerOpts, tracker.WithArchiver(archiver))
	}

	tr := tracker.New(newSession, logger, trackerOpts...)

	b, err := bridge.New(bridge.Config{
		Token:       cfg.DiscordToken,
		ChannelID:   cfg.ChannelID,
		ChannelName: cfg.ChannelName,
		Defaults: tracker.Defaults{
			Size:            cfg.DefaultSize,
			StandardSeconds: cfg.StandardSeconds,
			ProSeconds:      cfg.ProSeconds,
		},
		MaxAttachmentBytes: cfg.MaxAttachmentBytes,
	}, tr, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &Dependencies{
		Bot: b,
	}, nil
}

// initArchiver creates the archive backend based on configuration.
// Returns nil when no archive is configured; the tracker then reports
// oversized videos instead of re-homing them.
func initArchiver(cfg *config.Config, logger *slog.Logger) (storage.Archiver, error) {
	if cfg.S3Enabled() {
		s3Archiver, err := storage.NewS3Archiver(storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 archiver: %w", err)
		}
		logger.Info("S3 archive configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Archiver, nil
	}

	if cfg.ArchiveDir != "" {
		local, err := storage.NewLocalArchiver(cfg.ArchiveDir)
		if err != nil {
			return nil, fmt.Errorf("create local archiver: %w", err)
		}
		logger.Info("local archive configured",
			slog.String("dir", local.Dir()),
		)
		return local, nil
	}

	return nil, nil
}
