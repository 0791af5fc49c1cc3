// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server implements the development chat backend behind `nova serve`.
//
// # Endpoints
//
//	POST /chat   {"message": "..."} -> {"response": "..."}
//	GET  /test   {"status": "OK", "message": "Server is running"}
//
// Errors are reported as {"error": "..."} with a 4xx or 5xx status, which is
// exactly what the transport client expects.
//
// # Responders
//
// The reply text comes from a Responder. EchoResponder needs no credentials
// and is the default. GeminiResponder forwards the message to Google Gemini
// and OllamaResponder to a local Ollama server.
//
// # Middleware
//
// Requests pass through chi's RequestID and Recoverer, then CORS, zap request
// logging, and a per-IP token-bucket rate limit on /chat.
package server
