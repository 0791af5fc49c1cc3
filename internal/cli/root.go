// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jeranaias/nova-tui/internal/config"
	"github.com/jeranaias/nova-tui/internal/console"
	"github.com/jeranaias/nova-tui/internal/logging"
	"github.com/jeranaias/nova-tui/internal/transport"
	"github.com/jeranaias/nova-tui/internal/ui/styles"
	"github.com/jeranaias/nova-tui/internal/ui/tui"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalFlags holds flags shared by every command.
type globalFlags struct {
	configPath string
	url        string
	timeout    time.Duration
	verbose    bool
	plain      bool
}

// app is the state shared by the commands of one invocation.
type app struct {
	flags  globalFlags
	cfg    *config.Config
	logger *zap.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Execute runs the nova command tree with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree bound to the given streams.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{stdin: in, stdout: out, stderr: errOut, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "nova",
		Short: "Nova AI chat client",
		Long: `nova is a terminal chat client for the Nova AI backend.

Run without arguments to open the full-screen chat. When stdout is not a
terminal, or with --plain, a line-mode console is used instead.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
		RunE: a.runChat,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.nova/config.toml)")
	pf.StringVar(&a.flags.url, "url", "", "backend base URL (overrides client.base_url)")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "per-request timeout (overrides client.timeout_secs)")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")
	root.Flags().BoolVar(&a.flags.plain, "plain", false, "use the line-mode console")

	root.AddCommand(
		newAskCommand(a),
		newPingCommand(a),
		newServeCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	serving := cmd.Name() == "serve"
	if serving {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
	}

	var (
		cfg *config.Config
		err error
	)
	if a.flags.configPath != "" {
		cfg, err = config.LoadFromPath(a.flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if a.flags.url != "" {
		cfg.Client.BaseURL = a.flags.url
	}
	if a.flags.timeout > 0 {
		cfg.Client.TimeoutSecs = int(a.flags.timeout.Round(time.Second) / time.Second)
	}
	config.SetGlobal(cfg)
	a.cfg = cfg

	a.logger = logging.NewOrNop(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Verbose: a.flags.verbose,
		Stderr:  serving,
	})
	a.logger.Debug("configuration loaded", zap.String("base_url", cfg.Client.BaseURL))
	return nil
}

// requestTimeout prefers the exact --timeout value over the config seconds.
func (a *app) requestTimeout() time.Duration {
	if a.flags.timeout > 0 {
		return a.flags.timeout
	}
	return a.cfg.Client.Timeout()
}

func (a *app) newClient() *transport.Client {
	return transport.New(a.cfg.Client.BaseURL,
		transport.WithTimeout(a.requestTimeout()),
		transport.WithPaths(a.cfg.Client.ChatPath, a.cfg.Client.HealthPath),
		transport.WithLogger(a.logger),
	)
}

func (a *app) theme() *styles.Theme {
	return styles.NewThemeNamed(a.cfg.UI.Theme)
}

// runChat opens the full-screen UI, or the console when the streams are not
// terminals.
func (a *app) runChat(cmd *cobra.Command, _ []string) error {
	client := a.newClient()
	defer client.Close()

	if a.flags.plain || !isTerminal(a.stdin) || !isTerminal(a.stdout) {
		c, err := console.New(console.Options{
			Sender:      client,
			Pinger:      client,
			In:          a.stdin,
			Out:         a.stdout,
			Theme:       a.theme(),
			Formatter:   a.cfg.UI.Formatter,
			Greeting:    a.cfg.UI.Greeting,
			ScrollDelay: a.cfg.UI.ScrollDelay(),
			Logger:      a.logger,
		})
		if err != nil {
			return err
		}
		return c.Run(cmd.Context())
	}

	return tui.Run(cmd.Context(), tui.Options{
		Sender:         client,
		Pinger:         client,
		Theme:          a.theme(),
		Formatter:      a.cfg.UI.Formatter,
		Greeting:       a.cfg.UI.Greeting,
		MaxInputLines:  a.cfg.UI.MaxInputLines,
		ScrollDelay:    a.cfg.UI.ScrollDelay(),
		NoticeDuration: a.cfg.UI.NoticeDuration(),
		Logger:         a.logger,
	})
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func outputWidth(w any) int {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}
