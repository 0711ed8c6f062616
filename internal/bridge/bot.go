// Package bridge is the Discord surface of the bot: slash command
// registration, the channel restriction, and the hand-off of accepted
// requests to the tracker.
package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"

	"github.com/videobridge/sorabridge/internal/tracker"
)

// Config holds the Discord-facing settings for the bot.
type Config struct {
	Token string
	// ChannelID is the stable identifier of the designated channel.
	// Preferred; ChannelName is only consulted when it is unset.
	ChannelID          string
	ChannelName        string
	Defaults           tracker.Defaults
	MaxAttachmentBytes int64
}

// Bot connects the Discord gateway to the job tracker.
type Bot struct {
	client        bot.Client
	tracker       *tracker.Tracker
	logger        *slog.Logger
	channelID     snowflake.ID
	channelName   string
	defaults      tracker.Defaults
	maxAttachment int64
}

// New creates the bot and its Discord client. The gateway is not opened
// until Start is called.
func New(cfg Config, tr *tracker.Tracker, logger *slog.Logger) (*Bot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bot{
		tracker:       tr,
		logger:        logger,
		channelName:   cfg.ChannelName,
		defaults:      cfg.Defaults,
		maxAttachment: cfg.MaxAttachmentBytes,
	}

	if cfg.ChannelID != "" {
		id, err := snowflake.Parse(cfg.ChannelID)
		if err != nil {
			return nil, fmt.Errorf("bridge: parse channel ID: %w", err)
		}
		b.channelID = id
	}

	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagChannels)),
		bot.WithEventListenerFunc(b.onCommand),
	)
	if err != nil {
		return nil, fmt.Errorf("bridge: create discord client: %w", err)
	}
	b.client = client

	return b, nil
}

// Start syncs the slash commands and opens the gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	if _, err := b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), commands()); err != nil {
		return fmt.Errorf("bridge: sync commands: %w", err)
	}
	b.logger.Info("slash commands synced")

	if err := b.client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("bridge: open gateway: %w", err)
	}
	b.logger.Info("gateway connected",
		slog.String("application_id", b.client.ApplicationID().String()),
	)
	return nil
}

// Close shuts down the gateway connection.
func (b *Bot) Close(ctx context.Context) {
	b.client.Close(ctx)
}
