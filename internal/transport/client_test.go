// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestServer starts a server and a client bound to it.
func newTestServer(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithHTTPClient(srv.Client())}, opts...)
	c := New(srv.URL, opts...)
	t.Cleanup(c.Close)
	return c
}

func TestSendMessage_Success(t *testing.T) {
	var got chatRequest
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"response":"Hi!"}`)
	})

	reply, err := c.SendMessage(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi!", reply)
	assert.Equal(t, "hello", got.Message)
}

func TestSendMessage_ErrorField(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"bad request"}`)
	})

	_, err := c.SendMessage(context.Background(), "hello")
	require.Error(t, err)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusBadRequest, te.Status)
	assert.Equal(t, "bad request", te.Error())
}

func TestSendMessage_StatusFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"not json", "<html>oops</html>"},
		{"no error field", `{"detail":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.SendMessage(context.Background(), "hello")
			require.Error(t, err)
			assert.Equal(t, "HTTP 500", err.Error())
		})
	}
}

func TestSendMessage_NoResponse(t *testing.T) {
	for _, body := range []string{`{}`, `{"response":""}`} {
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})

		_, err := c.SendMessage(context.Background(), "hello")
		assert.ErrorIs(t, err, ErrNoResponse, body)
	}
}

func TestSendMessage_MalformedJSON(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"response":`)
	})

	_, err := c.SendMessage(context.Background(), "hello")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.NotNil(t, errors.Unwrap(err))
	assert.Contains(t, te.Message, "invalid response")
}

// hangingServer starts a server that reads the request and then waits until
// the client goes away or the test ends. started, when non-nil, is closed once
// the request has arrived.
func hangingServer(t *testing.T, started chan<- struct{}, opts ...Option) *Client {
	t.Helper()
	release := make(chan struct{})
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		if started != nil {
			close(started)
		}
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}, opts...)
	// Registered after the server's cleanup, so it runs before Close.
	t.Cleanup(func() { close(release) })
	return c
}

func TestSendMessage_Timeout(t *testing.T) {
	c := hangingServer(t, nil, WithTimeout(50*time.Millisecond))

	_, err := c.SendMessage(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestSendMessage_Cancelled(t *testing.T) {
	started := make(chan struct{})
	c := hangingServer(t, started)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.SendMessage(ctx, "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "request cancelled", err.Error())
}

func TestSendMessage_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url)
	defer c.Close()

	_, err := c.SendMessage(context.Background(), "hello")
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 0, te.Status)
	assert.NotEmpty(t, te.Message)
	assert.NotNil(t, te.Unwrap())
}

func TestSendMessage_ResponseSizeCapped(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"response":"`+strings.Repeat("a", MaxResponseSize)+`"}`)
	})

	_, err := c.SendMessage(context.Background(), "hello")
	var te *TransportError
	require.True(t, errors.As(err, &te), "truncated body must fail to decode")
}

func TestCheckConnectivity(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = io.WriteString(w, `{"status":"OK","message":"Server is running"}`)
	}, WithPaths("", "/health"))

	payload, err := c.CheckConnectivity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK", payload["status"])
}

func TestCheckConnectivity_Failure(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.CheckConnectivity(context.Background())
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusServiceUnavailable, te.Status)
}

func TestNew_Defaults(t *testing.T) {
	c := New("", WithTimeout(-1), WithPaths("", ""), WithLogger(nil))
	defer c.Close()

	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.Timeout())
	assert.Equal(t, DefaultChatPath, c.chatPath)
	assert.Equal(t, DefaultHealthPath, c.healthPath)

	trimmed := New("http://example.test/")
	defer trimmed.Close()
	assert.Equal(t, "http://example.test", trimmed.BaseURL())
}
