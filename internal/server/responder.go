// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Responder produces the reply for a chat message.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, message string) (string, error)

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

// =============================================================================
// ECHO
// =============================================================================

// EchoResponder answers by quoting the message back. It needs no credentials.
type EchoResponder struct{}

// Respond returns the message wrapped in a short, formatted reply.
func (EchoResponder) Respond(_ context.Context, message string) (string, error) {
	return fmt.Sprintf("You said: **%s**", message), nil
}

// =============================================================================
// GEMINI
// =============================================================================

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

// ErrMissingAPIKey is returned when the Gemini responder has no API key.
var ErrMissingAPIKey = errors.New("missing API key: set GOOGLE_API_KEY in the environment or a .env file")

// GeminiResponder forwards messages to Google Gemini.
type GeminiResponder struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiResponder creates a Gemini client for modelName.
func NewGeminiResponder(ctx context.Context, apiKey, modelName string) (*GeminiResponder, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiResponder{client: client, model: client.GenerativeModel(modelName)}, nil
}

// Respond sends message to the model and returns its text.
func (g *GeminiResponder) Respond(ctx context.Context, message string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return extractText(resp), nil
}

// Close releases the client.
func (g *GeminiResponder) Close() error {
	return g.client.Close()
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
