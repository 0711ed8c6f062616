package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/videobridge/sorabridge/internal/delivery"
	"github.com/videobridge/sorabridge/internal/tracker"
)

// createTimeout bounds the synchronous job creation call that backs the
// acknowledgment message.
const createTimeout = 60 * time.Second

// onCommand handles a slash command interaction. The interaction is
// acknowledged as soon as the remote job is created; the result arrives
// later as a regular channel message from the tracker, because generation
// outlives the interaction token.
func (b *Bot) onCommand(e *events.ApplicationCommandInteractionCreate) {
	data := e.SlashCommandInteractionData()

	var tier tracker.Tier
	switch data.CommandName() {
	case commandSora:
		tier = tracker.TierStandard
	case commandSoraPro:
		tier = tracker.TierPro
	default:
		return
	}

	if !b.allowedChannel(e) {
		if err := e.CreateMessage(discord.NewMessageCreateBuilder().
			SetContentf("Please use this command in %s.", b.channelRef()).
			SetEphemeral(true).
			Build()); err != nil {
			b.logger.Error("failed to send channel rejection",
				slog.String("error", err.Error()),
			)
		}
		return
	}

	prompt := data.String("prompt")
	size, _ := data.OptString("size")
	seconds, _ := data.OptString("seconds")
	req := tracker.NewGenerationRequest(prompt, tier, size, seconds, b.defaults)

	// Defer within the 3 second interaction window; job creation can take
	// longer than that.
	if err := e.DeferCreateMessage(false); err != nil {
		b.logger.Error("failed to defer interaction",
			slog.String("error", err.Error()),
		)
		return
	}

	restClient := e.Client().Rest()
	appID := e.ApplicationID()
	token := e.Token()
	channelID := e.ChannelID()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), createTimeout)
		defer cancel()

		sink := delivery.NewDiscordSink(restClient, channelID, b.maxAttachment)

		var content string
		jobID, err := b.tracker.Launch(ctx, req, sink)
		if err != nil {
			b.logger.Error("job creation failed",
				slog.String("error", err.Error()),
			)
			content = fmt.Sprintf("Sorry, I couldn't start that job: `%s`", clip(err.Error()))
		} else {
			content = fmt.Sprintf("🎬 Job `%s` accepted — generating your %s video. The result will be posted here.", jobID, req.Tier.Title())
		}

		if _, err := restClient.CreateFollowupMessage(appID, token,
			discord.NewMessageCreateBuilder().SetContent(content).Build()); err != nil {
			b.logger.Error("failed to send acknowledgment",
				slog.String("error", err.Error()),
			)
		}
	}()
}

// allowedChannel reports whether the interaction happened in the
// designated channel.
func (b *Bot) allowedChannel(e *events.ApplicationCommandInteractionCreate) bool {
	if b.channelID != 0 {
		return e.ChannelID() == b.channelID
	}
	// Display names are not unique and break on rename; this path only
	// exists for installations configured before channel IDs were
	// supported.
	ch, ok := e.Client().Caches().Channel(e.ChannelID())
	return ok && ch.Name() == b.channelName
}

// channelRef renders a reference to the designated channel for the
// rejection notice.
func (b *Bot) channelRef() string {
	if b.channelID != 0 {
		return fmt.Sprintf("<#%d>", b.channelID)
	}
	return "#" + b.channelName
}

// clip bounds error text shown in the acknowledgment message.
func clip(s string) string {
	const max = 1500
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
