// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaResponder_Respond(t *testing.T) {
	var got ollamaChatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   got.Model,
			Message: ollamaMessage{Role: "assistant", Content: "hi from llama"},
			Done:    true,
		})
	}))
	defer ts.Close()

	o := NewOllamaResponder(ts.URL+"/", "llama3.2")
	defer o.Close()

	reply, err := o.Respond(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi from llama", reply)
	assert.Equal(t, "llama3.2", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, ollamaMessage{Role: "user", Content: "hello"}, got.Messages[0])
}

func TestOllamaResponder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"model missing", http.StatusNotFound, `{"error":"model 'x' not found"}`, "model not found"},
		{"error field", http.StatusInternalServerError, `{"error":"out of memory"}`, "ollama: out of memory"},
		{"no body", http.StatusBadGateway, ``, "chat request failed"},
		{"bad json", http.StatusOK, `{`, "decode response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := NewOllamaResponder(ts.URL, "x").Respond(context.Background(), "hi")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestOllamaResponder_NotRunning(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewOllamaResponder(url, "x").Respond(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrOllamaNotRunning)
}

func TestOllamaResponder_BehindChatEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{Message: ollamaMessage{Content: ""}, Done: true})
	}))
	defer ts.Close()

	rec, out := postChat(t, newTestHandler(NewOllamaResponder(ts.URL, "x")), "application/json", `{"message":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "No response from AI model", out["error"])
}
