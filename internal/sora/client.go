package sora

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// Static errors for Sora client operations.
var (
	// ErrAPIKeyRequired is returned when no API key is provided.
	ErrAPIKeyRequired = errors.New("sora: API key is required")
	// ErrJobIDRequired is returned when the job ID is not provided.
	ErrJobIDRequired = errors.New("sora: job ID is required")
	// ErrMalformedResponse is returned when a success response lacks the
	// expected identifier field.
	ErrMalformedResponse = errors.New("sora: response did not contain an id")
)

// Client defines the operations the tracker needs against the video
// generation service.
type Client interface {
	// CreateJob submits a generation job and returns the job ID to poll.
	CreateJob(ctx context.Context, req CreateRequest) (jobID string, err error)

	// PollJob performs a single status fetch for the given job.
	PollJob(ctx context.Context, jobID string) (Snapshot, error)

	// FetchContent downloads the generated video bytes for the given job,
	// returning the inferred file extension alongside the data.
	FetchContent(ctx context.Context, jobID string) (data []byte, ext string, err error)
}

// HTTPClient is the HTTP implementation of Client.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client. Each tracking task passes its
// own session here so concurrent jobs never share one.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithBaseURL sets a custom base URL for the Videos API.
func WithBaseURL(url string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = url
	}
}

// NewClient creates a new Sora HTTP client. The API key must be provided.
func NewClient(apiKey string, opts ...ClientOption) (*HTTPClient, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &HTTPClient{
		apiKey:     apiKey,
		baseURL:    "https://api.openai.com/v1",
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// CreateJob submits a generation job and returns the job ID to poll.
// A non-2xx response yields a *CreateError carrying the response body.
func (c *HTTPClient) CreateJob(ctx context.Context, req CreateRequest) (string, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("sora: marshal request: %w", err)
	}

	status, respBody, err := c.do(ctx, http.MethodPost, c.baseURL+"/videos", bodyBytes)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", &CreateError{StatusCode: status, Body: string(respBody)}
	}

	var resp createResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("sora: unmarshal create response: %w", err)
	}
	if resp.ID == "" {
		return "", ErrMalformedResponse
	}

	return resp.ID, nil
}

// PollJob performs a single status fetch for the given job. The full
// response document is returned untouched along with the normalized status.
func (c *HTTPClient) PollJob(ctx context.Context, jobID string) (Snapshot, error) {
	if jobID == "" {
		return Snapshot{}, ErrJobIDRequired
	}

	status, respBody, err := c.do(ctx, http.MethodGet, c.baseURL+"/videos/"+jobID, nil)
	if err != nil {
		return Snapshot{}, err
	}
	if status < 200 || status >= 300 {
		return Snapshot{}, &PollError{StatusCode: status, Body: string(respBody)}
	}

	var payload map[string]any
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return Snapshot{}, fmt.Errorf("sora: unmarshal poll response: %w", err)
	}

	raw, _ := payload["status"].(string)
	return Snapshot{
		Status:  normalizeStatus(raw),
		Payload: payload,
		Raw:     respBody,
	}, nil
}

// contentPaths lists the candidate content endpoints in priority order.
// The API has served the binary from both shapes depending on version.
func contentPaths(jobID string) []string {
	return []string{
		"/videos/" + jobID + "/content",
		"/videos/" + jobID + "/content/video",
	}
}

// FetchContent downloads the generated video bytes, trying each candidate
// endpoint in order and returning the first success. The file extension is
// inferred from the Content-Type header, defaulting to ".mp4".
func (c *HTTPClient) FetchContent(ctx context.Context, jobID string) ([]byte, string, error) {
	if jobID == "" {
		return nil, "", ErrJobIDRequired
	}

	lastStatus := 0
	var lastBody []byte
	for _, path := range contentPaths(jobID) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, "", fmt.Errorf("sora: create content request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("sora: content request failed: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, "", fmt.Errorf("sora: read content response: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, extensionFor(resp.Header.Get("Content-Type")), nil
		}
		lastStatus = resp.StatusCode
		lastBody = body
	}

	return nil, "", &ContentFetchError{StatusCode: lastStatus, Body: string(lastBody)}
}

// extensionFor maps a Content-Type header value to a file extension.
func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".mp4"
	}
	switch mediaType {
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	case "image/gif":
		return ".gif"
	default:
		return ".mp4"
	}
}

// do performs a single authenticated request and returns the status code
// and body. Transport-level failures are returned as errors; HTTP-level
// failures are left to the caller to classify.
func (c *HTTPClient) do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("sora: create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("sora: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("sora: read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
