// Package sora provides an HTTP client for the OpenAI Videos API (Sora 2).
package sora

import (
	"fmt"
	"strings"
)

// Status is the normalized state of a remote video generation job.
type Status string

// Normalized job statuses. The remote API has used several spellings for
// the same state across versions; Poll maps them all onto this set.
const (
	StatusQueued    Status = "QUEUED"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
	StatusUnknown   Status = "UNKNOWN"
)

// Terminal returns true if no further polling can change the status.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// normalizeStatus maps a raw status string from the API onto a Status.
func normalizeStatus(raw string) Status {
	switch strings.ToLower(raw) {
	case "queued", "pending", "in_queue":
		return StatusQueued
	case "in_progress", "processing", "running":
		return StatusRunning
	case "succeeded", "completed", "ready":
		return StatusSucceeded
	case "failed", "error":
		return StatusFailed
	case "cancelled", "canceled":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// CreateRequest contains the fields sent to the video creation endpoint.
type CreateRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Seconds string `json:"seconds"`
}

// createResponse is the expected shape of a successful creation response.
type createResponse struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// Snapshot is the result of a single poll: the normalized status plus the
// full response document, passed through untouched for asset location and
// diagnostics.
type Snapshot struct {
	Status  Status
	Payload map[string]any
	Raw     []byte
}

// CreateError is returned when the remote service rejects a job submission.
type CreateError struct {
	StatusCode int
	Body       string
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("sora: create video error %d: %s", e.StatusCode, e.Body)
}

// PollError is returned when the remote service rejects a status check.
type PollError struct {
	StatusCode int
	Body       string
}

func (e *PollError) Error() string {
	return fmt.Sprintf("sora: poll error %d: %s", e.StatusCode, e.Body)
}

// ContentFetchError is returned when no content endpoint produced the video
// bytes. It carries the last candidate's response for diagnosis.
type ContentFetchError struct {
	StatusCode int
	Body       string
}

func (e *ContentFetchError) Error() string {
	return fmt.Sprintf("sora: content fetch failed, last status %d: %s", e.StatusCode, e.Body)
}
