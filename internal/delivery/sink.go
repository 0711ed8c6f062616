// Package delivery defines the output port the tracker posts results to,
// plus the Discord implementation. The tracker only ever sees the Sink
// interface; swapping the chat platform means swapping the adapter.
package delivery

import (
	"context"
	"fmt"
)

// Sink is the destination for tracker status and result messages.
type Sink interface {
	// Post sends a plain text message.
	Post(ctx context.Context, text string) error

	// PostAttachment sends a text message with a binary file attached.
	// Returns *AttachmentTooLargeError when the platform rejects the file
	// for its size; the tracker handles that case without crashing.
	PostAttachment(ctx context.Context, text, filename string, data []byte) error
}

// AttachmentTooLargeError is returned when the sink rejects an attachment
// because it exceeds the platform's upload limit.
type AttachmentTooLargeError struct {
	// Size is the attachment size in bytes.
	Size int64
	// Limit is the configured upload limit in bytes, if known.
	Limit int64
}

func (e *AttachmentTooLargeError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("delivery: attachment of %d bytes exceeds the %d byte limit", e.Size, e.Limit)
	}
	return fmt.Sprintf("delivery: attachment of %d bytes rejected as too large", e.Size)
}
