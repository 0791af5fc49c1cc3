// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Configuration constants for the chat backend.
const (
	// DefaultBaseURL is where the development backend listens.
	DefaultBaseURL = "http://127.0.0.1:5000"

	// DefaultChatPath is the chat endpoint path.
	DefaultChatPath = "/chat"

	// DefaultHealthPath is the connectivity probe path.
	DefaultHealthPath = "/test"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// chatRequest is the body of POST /chat.
type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse is the body of a /chat reply. Only one field is set.
type chatResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Client talks to the chat backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	chatPath   string
	healthPath string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPaths overrides the chat and health endpoint paths. Empty values keep
// the defaults.
func WithPaths(chatPath, healthPath string) Option {
	return func(c *Client) {
		if chatPath != "" {
			c.chatPath = chatPath
		}
		if healthPath != "" {
			c.healthPath = healthPath
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the backend at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		chatPath:   DefaultChatPath,
		healthPath: DefaultHealthPath,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// SendMessage posts text to the chat endpoint and returns the reply.
// Cancelling ctx aborts the request.
func (c *Client) SendMessage(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(chatRequest{Message: text})
	if err != nil {
		return "", &TransportError{Message: err.Error(), Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + c.chatPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logRequest(req, len(text))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.requestError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return "", c.requestError(ctx, err)
	}
	c.logResponse(resp, len(data), time.Since(start))

	var parsed chatResponse
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A body that does not parse falls back to the status line.
		_ = json.Unmarshal(data, &parsed)
		return "", statusError(resp.StatusCode, parsed.Error)
	}

	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &TransportError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("invalid response from server: %v", err),
			Err:     err,
		}
	}
	if parsed.Response == "" {
		return "", ErrNoResponse
	}
	return parsed.Response, nil
}

// CheckConnectivity probes the health endpoint and returns its decoded JSON
// payload. The result is diagnostic only.
func (c *Client) CheckConnectivity(ctx context.Context) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.healthPath, nil)
	if err != nil {
		return nil, &TransportError{Message: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logRequest(req, 0)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.requestError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, c.requestError(ctx, err)
	}
	c.logResponse(resp, len(data), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, "")
	}

	payload := map[string]any{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &TransportError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("invalid response from server: %v", err),
			Err:     err,
		}
	}
	c.logger.Info("backend connectivity ok", zap.String("url", req.URL.String()), zap.Any("payload", payload))
	return payload, nil
}

// requestError converts a failed round trip into a TransportError,
// distinguishing timeouts and cancellations from network failures.
func (c *Client) requestError(ctx context.Context, err error) error {
	var message string
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		message = fmt.Sprintf("request timed out after %s", c.timeout)
		err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	case errors.Is(ctx.Err(), context.Canceled):
		message = "request cancelled"
		err = fmt.Errorf("%w: %w", context.Canceled, err)
	default:
		message = err.Error()
	}
	c.logger.Warn("backend request failed", zap.Error(err))
	return &TransportError{Message: message, Err: err}
}

func (c *Client) logRequest(req *http.Request, size int) {
	c.logger.Debug("backend request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("message_len", size),
	)
}

func (c *Client) logResponse(resp *http.Response, size int, elapsed time.Duration) {
	c.logger.Debug("backend response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", size),
		zap.Duration("elapsed", elapsed),
	)
}
