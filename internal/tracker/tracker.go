// Package tracker drives a video generation job from submission to a
// delivered result. It creates the remote job, polls it on a fixed cadence
// under a time budget, classifies the terminal state, and recovers the
// resulting asset through a cascade of retrieval strategies before posting
// to the delivery sink.
package tracker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/videobridge/sorabridge/internal/asset"
	"github.com/videobridge/sorabridge/internal/delivery"
	"github.com/videobridge/sorabridge/internal/sora"
	"github.com/videobridge/sorabridge/internal/storage"
)

// maxDiagnosticLen bounds raw payloads and error text shown to users.
const maxDiagnosticLen = 1500

// SessionFactory creates a job-scoped client for the generation service.
// Each tracking task gets its own session and calls release when it ends,
// so concurrent jobs never share connection state.
type SessionFactory func() (client sora.Client, release func())

// Tracker orchestrates create, poll-until-terminal, locate-asset and
// deliver for individual jobs. It is safe for concurrent use; every
// launched job runs in its own goroutine with its own session.
type Tracker struct {
	newSession   SessionFactory
	pollInterval time.Duration
	pollTimeout  time.Duration
	archiver     storage.Archiver
	logger       *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithPollInterval sets the fixed sleep between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.pollInterval = d
		}
	}
}

// WithPollTimeout sets the total time budget for watching one job.
func WithPollTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.pollTimeout = d
		}
	}
}

// WithArchiver sets an optional archive store used when a fetched video is
// too large for the sink to attach.
func WithArchiver(a storage.Archiver) Option {
	return func(t *Tracker) {
		t.archiver = a
	}
}

// New creates a Tracker. The session factory must not be nil.
func New(sessions SessionFactory, logger *slog.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracker{
		newSession:   sessions,
		pollInterval: 5 * time.Second,
		pollTimeout:  20 * time.Minute,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Launch validates the request and creates the remote job synchronously,
// so creation errors surface at the acknowledgment step and no background
// work is started for them. On success it spawns a detached goroutine that
// polls the job and posts the terminal outcome to the sink, then returns
// the job ID immediately.
//
// The goroutine's lifetime is independent of ctx: the interaction that
// triggered the job is long gone before the job finishes.
func (t *Tracker) Launch(ctx context.Context, req GenerationRequest, sink delivery.Sink) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	client, release := t.newSession()

	jobID, err := client.CreateJob(ctx, sora.CreateRequest{
		Model:   req.Tier.Model(),
		Prompt:  req.Prompt,
		Size:    req.Size,
		Seconds: req.Seconds,
	})
	if err != nil {
		release()
		return "", err
	}

	t.logger.Info("video job created",
		slog.String("job_id", jobID),
		slog.String("model", req.Tier.Model()),
		slog.String("size", req.Size),
		slog.String("seconds", req.Seconds),
	)

	go func() {
		defer release()
		defer func() {
			if r := recover(); r != nil {
				t.logger.Error("panic while tracking job",
					slog.String("job_id", jobID),
					slog.Any("error", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		t.track(context.Background(), client, jobID, req, sink)
	}()

	return jobID, nil
}

// track polls the job until a terminal status or the time budget runs out,
// then delivers exactly one terminal message. Poll calls for a single job
// are strictly sequential; the cadence is fixed, not adaptive.
func (t *Tracker) track(ctx context.Context, client sora.Client, jobID string, req GenerationRequest, sink delivery.Sink) {
	deadline := time.Now().Add(t.pollTimeout)
	lastStatus := sora.StatusUnknown

	for {
		snap, err := client.PollJob(ctx, jobID)
		if err != nil {
			t.logger.Error("poll failed",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()),
			)
			t.post(ctx, sink, jobID,
				fmt.Sprintf("Sorry, I hit an error while tracking job `%s`: `%s`", jobID, truncate(err.Error(), maxDiagnosticLen)))
			return
		}

		if snap.Status != lastStatus {
			t.logger.Debug("job status changed",
				slog.String("job_id", jobID),
				slog.String("status", string(snap.Status)),
			)
			lastStatus = snap.Status
		}

		switch snap.Status {
		case sora.StatusSucceeded:
			t.deliver(ctx, client, jobID, req, snap, sink)
			return
		case sora.StatusFailed, sora.StatusCancelled:
			t.post(ctx, sink, jobID,
				fmt.Sprintf("Video job `%s` failed:\n```json\n%s\n```", jobID, truncate(string(snap.Raw), maxDiagnosticLen)))
			return
		}

		if time.Now().After(deadline) {
			// Not a failure: the remote job may still finish, we just stop
			// watching it.
			t.logger.Warn("gave up waiting for job",
				slog.String("job_id", jobID),
				slog.Duration("waited", t.pollTimeout),
			)
			t.post(ctx, sink, jobID,
				fmt.Sprintf("Job `%s` is still running after %s. It may complete later, but I've stopped watching it.", jobID, t.pollTimeout))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(t.pollInterval):
		}
	}
}

// deliver runs the asset retrieval cascade for a successful job:
// direct URL, then binary content fetch, then archive upload when the sink
// rejects the attachment.
func (t *Tracker) deliver(ctx context.Context, client sora.Client, jobID string, req GenerationRequest, snap sora.Snapshot, sink delivery.Sink) {
	header := fmt.Sprintf("**%s result for:** `%s`", req.Tier.Title(), req.Prompt)

	if url, ok := asset.LocateURL(snap.Payload); ok {
		t.post(ctx, sink, jobID, header+"\n"+url)
		return
	}

	data, ext, err := client.FetchContent(ctx, jobID)
	if err != nil {
		t.logger.Error("content fetch failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		t.post(ctx, sink, jobID,
			fmt.Sprintf("Video job `%s` finished but I couldn't retrieve the result: `%s`", jobID, truncate(err.Error(), maxDiagnosticLen)))
		return
	}

	filename := "sora-" + jobID + ext
	err = sink.PostAttachment(ctx, header, filename, data)
	if err == nil {
		return
	}

	var tooLarge *delivery.AttachmentTooLargeError
	if !errors.As(err, &tooLarge) {
		t.logger.Error("attachment delivery failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		t.post(ctx, sink, jobID,
			fmt.Sprintf("Video job `%s` finished but delivery failed: `%s`", jobID, truncate(err.Error(), maxDiagnosticLen)))
		return
	}

	if t.archiver != nil {
		url, archiveErr := t.archiver.Archive(ctx, filename, contentTypeFor(ext), bytes.NewReader(data))
		if archiveErr == nil {
			t.post(ctx, sink, jobID, header+"\n"+url)
			return
		}
		t.logger.Error("archive upload failed",
			slog.String("job_id", jobID),
			slog.String("error", archiveErr.Error()),
		)
	}

	t.post(ctx, sink, jobID,
		fmt.Sprintf("Video for job `%s` was generated but is too large to attach (%.1f MB).", jobID, megabytes(len(data))))
}

// post sends one message to the sink, logging delivery failures instead of
// propagating them.
func (t *Tracker) post(ctx context.Context, sink delivery.Sink, jobID, text string) {
	if err := sink.Post(ctx, text); err != nil {
		t.logger.Error("failed to post message",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}
}

// contentTypeFor maps a file extension back to a media type for archival.
func contentTypeFor(ext string) string {
	switch strings.ToLower(ext) {
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".gif":
		return "image/gif"
	default:
		return "video/mp4"
	}
}

// truncate bounds s to at most n bytes for display.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

// megabytes converts a byte count to MB for user-facing messages.
func megabytes(n int) float64 {
	return float64(n) / (1 << 20)
}
