package delivery

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// Compile-time check that DiscordSink implements Sink.
var _ Sink = (*DiscordSink)(nil)

// DiscordSink posts tracker output into a single Discord channel.
// It is safe for concurrent use; the underlying rest client handles
// rate limiting.
type DiscordSink struct {
	rest          rest.Rest
	channelID     snowflake.ID
	maxAttachment int64
}

// NewDiscordSink creates a sink bound to the given channel.
// maxAttachment is the upload limit in bytes; attachments over it are
// rejected locally before the request is ever sent.
func NewDiscordSink(restClient rest.Rest, channelID snowflake.ID, maxAttachment int64) *DiscordSink {
	return &DiscordSink{
		rest:          restClient,
		channelID:     channelID,
		maxAttachment: maxAttachment,
	}
}

// Post sends a plain text message to the channel.
func (s *DiscordSink) Post(ctx context.Context, text string) error {
	_, err := s.rest.CreateMessage(s.channelID,
		discord.NewMessageCreateBuilder().SetContent(text).Build(),
		rest.WithCtx(ctx),
	)
	return err
}

// PostAttachment sends a text message with a file attached. Oversized
// attachments are rejected with *AttachmentTooLargeError, either by the
// local limit check or by mapping Discord's own rejection.
func (s *DiscordSink) PostAttachment(ctx context.Context, text, filename string, data []byte) error {
	size := int64(len(data))
	if s.maxAttachment > 0 && size > s.maxAttachment {
		return &AttachmentTooLargeError{Size: size, Limit: s.maxAttachment}
	}

	_, err := s.rest.CreateMessage(s.channelID,
		discord.NewMessageCreateBuilder().
			SetContent(text).
			AddFile(filename, "", bytes.NewReader(data)).
			Build(),
		rest.WithCtx(ctx),
	)
	if err != nil && isEntityTooLarge(err) {
		return &AttachmentTooLargeError{Size: size, Limit: s.maxAttachment}
	}
	return err
}

// errCodePayloadTooLarge is Discord's JSON error code for oversized uploads.
const errCodePayloadTooLarge = 40005

// isEntityTooLarge reports whether the rest error is Discord rejecting the
// upload for its size.
func isEntityTooLarge(err error) bool {
	var restErr rest.Error
	if !errors.As(err, &restErr) {
		return false
	}
	if int(restErr.Code) == errCodePayloadTooLarge {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusRequestEntityTooLarge
}
