// Package client talks to a running TranscriptFlow server. It covers the
// channel job lifecycle used by the CLI: start, poll, cancel, delete, export.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/killallgit/transcriptflow-api/api/types"
)

// DefaultPollInterval matches the polling cadence of the web client
const DefaultPollInterval = 2 * time.Second

// MaxMissedPolls is how many consecutive 404 or transport failures Watch
// tolerates before giving up
const MaxMissedPolls = 3

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Config holds connection settings
type Config struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	UserAgent string
}

// Client handles communication with the TranscriptFlow API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
}

// New creates an API client
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "transcriptflow-cli/1.0"
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
	}
}

// CreateChannelJob starts a channel batch extraction
func (c *Client) CreateChannelJob(ctx context.Context, req types.ChannelExtractionRequest) (*types.ChannelJobStartedResponse, error) {
	var resp types.ChannelJobStartedResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/extract/channel", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetJob fetches one job snapshot
func (c *Client) GetJob(ctx context.Context, jobID string) (*types.ChannelJobResponse, error) {
	var resp types.ChannelJobResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/extract/channel/"+url.PathEscape(jobID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListJobs returns the caller's most recent jobs
func (c *Client) ListJobs(ctx context.Context, limit int) (*types.ChannelJobsResponse, error) {
	path := "/api/v1/extract/channel"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var resp types.ChannelJobsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelJob stops a job before its next video; the job keeps its results
func (c *Client) CancelJob(ctx context.Context, jobID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/extract/channel/"+url.PathEscape(jobID)+"?action=cancel", nil, nil)
}

// DeleteJob removes a job
func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/extract/channel/"+url.PathEscape(jobID), nil, nil)
}

// Export downloads the transcripts of a finished job. Empty format or mode
// use the server defaults.
func (c *Client) Export(ctx context.Context, jobID, format, mode string) (data []byte, filename string, err error) {
	params := url.Values{}
	if format != "" {
		params.Set("format", format)
	}
	if mode != "" {
		params.Set("mode", mode)
	}
	path := "/api/v1/extract/channel/" + url.PathEscape(jobID) + "/export"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if data, err = io.ReadAll(resp.Body); err != nil {
		return nil, "", fmt.Errorf("reading export: %w", err)
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return data, filename, nil
}

// GetTranscript extracts a single video by ID or URL
func (c *Client) GetTranscript(ctx context.Context, video string) (*types.TranscriptResponse, error) {
	key := "videoId"
	if strings.Contains(video, "/") {
		key = "url"
	}
	var resp types.TranscriptResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/transcript?"+url.Values{key: {video}}.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Watch polls a job until it reaches a terminal status, calling fn with every
// snapshot. Up to MaxMissedPolls consecutive 404s or transport errors are
// tolerated; other API errors stop the watch.
func (c *Client) Watch(ctx context.Context, jobID string, interval time.Duration, fn func(*types.ChannelJobResponse)) (*types.ChannelJobResponse, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	missed := 0
	for {
		job, err := c.GetJob(ctx, jobID)
		switch {
		case err == nil:
			missed = 0
			if fn != nil {
				fn(job)
			}
			if job.Status.IsTerminal() {
				return job, nil
			}
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case IsTransient(err):
			missed++
			if missed >= MaxMissedPolls {
				return nil, fmt.Errorf("polling job %s: %w", jobID, err)
			}
		default:
			return nil, fmt.Errorf("polling job %s: %w", jobID, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// IsTransient reports errors worth retrying: 404s, 5xx answers and transport failures
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	resp, err := c.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// do sends the request and turns non-2xx answers into an APIError
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var errResp types.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&errResp); err == nil {
		apiErr.Code = errResp.Error
		if errResp.Message != "" {
			apiErr.Message = errResp.Message
		}
	}
	return nil, apiErr
}
