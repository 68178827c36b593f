// Package taskservice is the HTTP client for the remote asynchronous task API
// (POST /tasks, GET /tasks/{id}). Calls are made once: no retry, no caching.
package taskservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/sheetbridge/internal/bridge"
	"github.com/JakeFAU/sheetbridge/internal/metrics"
)

// Ensure Client implements bridge.TaskService at compile time.
var _ bridge.TaskService = (*Client)(nil)

const (
	defaultUserAgent = "sheetbridge/0.1"
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 64 << 20

	opSubmit      = "submit"
	opFetchStatus = "fetch_status"
)

// Config controls how the client reaches the task service.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Transport overrides http.DefaultTransport.
	Transport http.RoundTripper
}

// Client talks to the task service HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

// New builds a Client for cfg.BaseURL.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	base, err := ParseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// Submit posts the job document and returns the service's descriptor.
func (c *Client) Submit(ctx context.Context, req bridge.JobRequest) (bridge.JobHandle, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return bridge.JobHandle{}, fmt.Errorf("encode job request: %w", err)
	}
	payload, err := c.do(ctx, opSubmit, http.MethodPost, c.baseURL.JoinPath("tasks"), body)
	if err != nil {
		return bridge.JobHandle{}, err
	}
	if !json.Valid(payload) {
		return bridge.JobHandle{}, &bridge.UpstreamError{
			Op:  opSubmit,
			Err: fmt.Errorf("decode response: invalid JSON"),
		}
	}
	handle := bridge.JobHandle{ID: extractID(payload), Descriptor: payload}
	c.logger.Info("job submitted",
		zap.String("job_id", handle.ID),
		zap.String("type", req.Type),
		zap.Int("urls", len(req.URLs)),
		zap.Int("pages", req.Pages),
	)
	return handle, nil
}

// FetchStatus returns the current status document for jobID.
func (c *Client) FetchStatus(ctx context.Context, jobID string) (bridge.StatusDocument, error) {
	if strings.TrimSpace(jobID) == "" {
		return bridge.StatusDocument{}, fmt.Errorf("%w: job id required", bridge.ErrValidation)
	}
	target := c.baseURL.JoinPath("tasks", url.PathEscape(jobID))
	payload, err := c.do(ctx, opFetchStatus, http.MethodGet, target, nil)
	if err != nil {
		return bridge.StatusDocument{}, err
	}
	var doc bridge.StatusDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return bridge.StatusDocument{}, &bridge.UpstreamError{
			Op:  opFetchStatus,
			Err: fmt.Errorf("decode response: %w", err),
		}
	}
	return doc, nil
}

func (c *Client) do(ctx context.Context, op, method string, target *url.URL, body []byte) ([]byte, error) {
	start := time.Now()
	payload, err := c.roundTrip(ctx, op, method, target, body)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		c.logger.Warn("task service request failed",
			zap.String("op", op),
			zap.String("url", target.String()),
			zap.Error(err),
		)
	}
	metrics.ObserveUpstreamRequest(op, outcome, time.Since(start))
	return payload, err
}

func (c *Client) roundTrip(ctx context.Context, op, method string, target *url.URL, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &bridge.UpstreamError{Op: op, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &bridge.UpstreamError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &bridge.UpstreamError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Detail:     extractDetail(payload),
			Err:        fmt.Errorf("request failed with status code %d", resp.StatusCode),
		}
	}
	return payload, nil
}

// extractDetail pulls the service's "detail" field out of an error body.
// String details are returned as-is; structured details (validation error
// lists, for example) as compact JSON.
func extractDetail(payload []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if len(body.Detail) == 0 || string(body.Detail) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, body.Detail); err != nil {
		return ""
	}
	return compact.String()
}

var idFields = []string{"task_id", "taskId", "job_id", "jobId", "id"}

// extractID finds a job identifier in a submission descriptor.
func extractID(payload []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ""
	}
	for _, name := range idFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

// ParseBaseURL normalizes a task service address. A missing scheme defaults to
// http; trailing slashes, query and fragment are dropped.
func ParseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("task service base url is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
