// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

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
)

// =============================================================================
// OLLAMA
// =============================================================================

// DefaultOllamaURL is the address of a local Ollama server.
const DefaultOllamaURL = "http://127.0.0.1:11434"

// maxOllamaResponse caps the decoded /api/chat body.
const maxOllamaResponse = 10 << 20

var (
	// ErrOllamaNotRunning is returned when the Ollama server cannot be reached.
	ErrOllamaNotRunning = errors.New("Ollama is not running")

	// ErrOllamaModelNotFound is returned when Ollama does not know the model.
	ErrOllamaModelNotFound = errors.New("model not found")
)

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error,omitempty"`
}

// OllamaResponder forwards each message to a local Ollama model as a
// single-turn, non-streaming chat.
type OllamaResponder struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaResponder creates a responder for model served at baseURL.
func NewOllamaResponder(baseURL, model string) *OllamaResponder {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	return &OllamaResponder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Respond sends message to /api/chat and returns the assistant text.
func (o *OllamaResponder) Respond(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model:    o.model,
		Messages: []ollamaMessage{{Role: "user", Content: message}},
	})
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrOllamaNotRunning, err)
	}
	defer resp.Body.Close()

	var result ollamaChatResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxOllamaResponse)).Decode(&result)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrOllamaModelNotFound, o.model)
	case resp.StatusCode != http.StatusOK:
		if decodeErr == nil && result.Error != "" {
			return "", fmt.Errorf("ollama: %s", result.Error)
		}
		return "", fmt.Errorf("ollama: chat request failed: %s", resp.Status)
	case decodeErr != nil:
		return "", fmt.Errorf("ollama: decode response: %w", decodeErr)
	}
	return result.Message.Content, nil
}

// Close releases idle connections.
func (o *OllamaResponder) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}
