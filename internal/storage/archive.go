// Package storage provides the archive backends for generated videos.
// Archival is the last retrieval fallback: when a video is too large for
// the chat platform to attach, the tracker uploads it here and posts the
// resulting URL instead.
package storage

import (
	"context"
	"io"
)

// Archiver persists a generated video outside the chat platform and
// returns a URL (or path) where it can be retrieved.
type Archiver interface {
	Archive(ctx context.Context, key, contentType string, data io.Reader) (url string, err error)
}
