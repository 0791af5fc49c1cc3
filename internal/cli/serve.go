// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/nova-tui/internal/config"
	"github.com/jeranaias/nova-tui/internal/server"
	"github.com/jeranaias/nova-tui/internal/ui/styles"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	addr      string
	responder string
}

func newServeCommand(a *app) *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development chat backend",
		Long: `Runs an HTTP backend exposing POST /chat and GET /test.

The "echo" responder needs no credentials. The "gemini" responder reads
GOOGLE_API_KEY from the environment or a .env file in the working directory.
The "ollama" responder forwards to a local Ollama server (OLLAMA_HOST).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (overrides backend.addr)")
	cmd.Flags().StringVar(&flags.responder, "responder", "", "echo, gemini or ollama (overrides backend.responder)")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, flags serveFlags) error {
	backend := a.cfg.Backend
	if flags.addr != "" {
		backend.Addr = flags.addr
	}
	if flags.responder != "" {
		backend.Responder = flags.responder
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	responder, closeResponder, err := newResponder(ctx, backend)
	if err != nil {
		return err
	}
	defer closeResponder()

	cors := server.DefaultCORSConfig()
	if len(backend.AllowedOrigins) > 0 {
		cors.AllowedOrigins = backend.AllowedOrigins
	}
	srv := server.New(server.Options{
		Addr:            backend.Addr,
		CORS:            cors,
		RateLimitPerMin: backend.RateLimitPerMin,
	}, responder, a.logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	fmt.Fprintln(cmd.OutOrStdout(), styles.RenderInfo(
		fmt.Sprintf("nova backend on http://%s (responder: %s)", backend.Addr, backend.Responder)))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("shutdown failed", zap.Error(err))
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	return <-errCh
}

// newResponder builds the configured responder and a func releasing it.
func newResponder(ctx context.Context, backend config.BackendConfig) (server.Responder, func(), error) {
	switch backend.Responder {
	case "", "echo":
		return server.EchoResponder{}, func() {}, nil
	case "gemini":
		g, err := server.NewGeminiResponder(ctx, backend.GeminiAPIKey, backend.GeminiModel)
		if err != nil {
			return nil, nil, fmt.Errorf("serve: %w", err)
		}
		return g, func() { _ = g.Close() }, nil
	case "ollama":
		o := server.NewOllamaResponder(backend.OllamaURL, backend.OllamaModel)
		return o, func() { _ = o.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("serve: unknown responder %q (want echo, gemini or ollama)", backend.Responder)
	}
}
