// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// maxRequestSize bounds the /chat request body.
const maxRequestSize = 1 << 20 // 1MB

// Options configures a Server.
type Options struct {
	// Addr is the listen address, e.g. 127.0.0.1:5000.
	Addr string

	// CORS is the CORS policy; nil selects DefaultCORSConfig.
	CORS *CORSConfig

	// RateLimitPerMin limits /chat per client IP; 0 disables it.
	RateLimitPerMin int
}

// Server is the development chat backend.
type Server struct {
	opts      Options
	responder Responder
	logger    *zap.Logger
	router    chi.Router
	server    *http.Server
}

// New creates a server answering with responder.
func New(opts Options, responder Responder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CORS == nil {
		opts.CORS = DefaultCORSConfig()
	}
	s := &Server{
		opts:      opts,
		responder: responder,
		logger:    logger,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// setupRoutes configures the HTTP routes.
func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORSMiddleware(s.opts.CORS))
	r.Use(LoggingMiddleware(s.logger))

	r.Get("/test", s.handleTest)
	r.Group(func(r chi.Router) {
		if s.opts.RateLimitPerMin > 0 {
			r.Use(NewRateLimiter(s.opts.RateLimitPerMin).Middleware)
		}
		r.Post("/chat", s.handleChat)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "File not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	s.router = r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ============================================================================
// Handlers
// ============================================================================

// TestResponse is the body of GET /test.
type TestResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TestResponse{Status: "OK", Message: "Server is running"})
}

// ChatResponse is the success body of POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r.Header.Get("Content-Type")) {
		writeError(w, http.StatusBadRequest, "Content-Type must be application/json")
		return
	}

	var data map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize))
	if err := dec.Decode(&data); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %v", err))
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "No JSON data provided")
		return
	}

	message, _ := data["message"].(string)
	if message == "" {
		writeError(w, http.StatusBadRequest, "No message provided")
		return
	}

	start := time.Now()
	reply, err := s.responder.Respond(r.Context(), message)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Error("responder failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		writeError(w, http.StatusInternalServerError, "Server error: "+err.Error())
		return
	}
	if strings.TrimSpace(reply) == "" {
		s.logger.Warn("empty reply from responder", zap.Duration("elapsed", elapsed))
		writeError(w, http.StatusInternalServerError, "No response from AI model")
		return
	}

	s.logger.Info("reply generated",
		zap.Int("message_len", len(message)),
		zap.Int("reply_len", len(reply)),
		zap.Duration("elapsed", elapsed),
	)
	writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
}

// isJSON reports whether a Content-Type header denotes JSON.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// ============================================================================
// Lifecycle
// ============================================================================

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("server started", zap.String("addr", ln.Addr().String()))
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// ============================================================================
// Helpers
// ============================================================================

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
