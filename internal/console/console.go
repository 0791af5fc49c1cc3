// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/peterh/liner"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jeranaias/nova-tui/internal/chat"
	"github.com/jeranaias/nova-tui/internal/config"
	"github.com/jeranaias/nova-tui/internal/format"
	"github.com/jeranaias/nova-tui/internal/model"
	"github.com/jeranaias/nova-tui/internal/ui/styles"
	"github.com/jeranaias/nova-tui/internal/view"
)

const (
	primaryPrompt      = "you> "
	continuationPrompt = "...> "
	clearLine          = "\r\x1b[2K"
	historyFileName    = "history"
)

// Pinger checks that the backend is reachable.
type Pinger interface {
	CheckConnectivity(ctx context.Context) (map[string]any, error)
}

// Options configures a Console.
type Options struct {
	// Sender delivers messages. Required.
	Sender chat.Sender

	// Pinger runs the startup connectivity check. Optional.
	Pinger Pinger

	// In and Out default to os.Stdin and os.Stdout. Line editing is used
	// only when In is a terminal.
	In  io.Reader
	Out io.Writer

	Theme       *styles.Theme
	Formatter   string
	Greeting    string
	ScrollDelay time.Duration
	Logger      *zap.Logger
}

// Console is a line-mode chat session.
type Console struct {
	out         io.Writer
	reader      lineReader
	interactive bool
	theme       *styles.Theme
	logger      *zap.Logger

	thread     *view.Thread
	renderer   *chat.Renderer
	controller *chat.Controller
	pinger     Pinger

	// interrupt scopes a request context to Ctrl+C.
	interrupt func(context.Context) (context.Context, context.CancelFunc)

	mu     sync.Mutex
	typing bool
}

// New creates a console. It does not touch the terminal until Run.
func New(opts Options) (*Console, error) {
	if opts.Sender == nil {
		return nil, fmt.Errorf("console: a sender is required")
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	interactive := isTerminal(in)

	formatter, err := format.New(opts.Formatter, theme, outputWidth(out))
	if err != nil {
		return nil, err
	}

	c := &Console{
		out:         out,
		interactive: interactive,
		theme:       theme,
		logger:      logger,
		thread:      view.NewThread(nil),
		pinger:      opts.Pinger,
		interrupt: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		},
	}
	if interactive {
		c.reader = newLinerReader(historyPath())
	} else {
		c.reader = newScanReader(in)
	}

	ropts := []chat.RendererOption{chat.WithRendererLogger(logger)}
	if opts.Greeting != "" {
		ropts = append(ropts, chat.WithGreeting(opts.Greeting))
	}
	if opts.ScrollDelay > 0 {
		ropts = append(ropts, chat.WithScrollDelay(opts.ScrollDelay))
	}
	c.renderer = chat.NewRenderer(c.thread, formatter, ropts...)

	vc := view.Context{
		Conversation: c.thread,
		Input:        view.NewField(nil),
		Submit:       view.NewButton(nil),
		Notifier:     view.NotifierFunc(c.notify),
	}
	c.controller = chat.NewController(vc, c.renderer, opts.Sender, chat.WithLogger(logger))
	c.thread.Observe(c.onChange)
	return c, nil
}

// Run reads and sends messages until /quit, end of input, Ctrl+C at the
// prompt, or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	defer c.Close()

	c.renderer.ClearConversation()
	c.checkConnectivity(ctx)

	for ctx.Err() == nil {
		input, err := c.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return fmt.Errorf("console: read input: %w", err)
		}

		if cmd := strings.TrimSpace(input); strings.HasPrefix(cmd, "/") && !strings.ContainsAny(cmd, " \n") {
			if !c.handleCommand(cmd) {
				return nil
			}
			continue
		}

		c.reader.AppendHistory(input)
		c.send(ctx, input)
	}
	return nil
}

// Abort cancels the request in flight. It reports whether there was one.
func (c *Console) Abort() bool {
	return c.controller.Abort()
}

// Close releases the line reader and detaches the thread.
func (c *Console) Close() error {
	c.thread.Detach()
	return c.reader.Close()
}

func (c *Console) send(ctx context.Context, input string) {
	reqCtx, stop := c.interrupt(ctx)
	defer stop()

	if err := c.controller.Submit(reqCtx, input); err != nil {
		c.logger.Debug("submission failed", zap.Error(err))
	}
}

func (c *Console) checkConnectivity(ctx context.Context) {
	if c.pinger == nil {
		return
	}
	if _, err := c.pinger.CheckConnectivity(ctx); err != nil {
		c.logger.Warn("connectivity check failed", zap.Error(err))
		c.notify(view.LevelWarning, chat.ConnectivityWarning)
	}
}

// readMessage reads one message. A line ending in a backslash continues on
// the next line.
func (c *Console) readMessage() (string, error) {
	var lines []string
	prompt := primaryPrompt
	for {
		line, err := c.reader.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				return strings.Join(lines, "\n"), nil
			}
			return "", err
		}
		if strings.HasSuffix(line, `\`) {
			lines = append(lines, strings.TrimSuffix(line, `\`))
			prompt = continuationPrompt
			continue
		}
		lines = append(lines, line)
		return strings.Join(lines, "\n"), nil
	}
}

// handleCommand runs a slash command. It returns false when the session
// should end.
func (c *Console) handleCommand(cmd string) bool {
	switch strings.ToLower(cmd) {
	case "/quit", "/q", "/exit":
		return false
	case "/new", "/clear":
		c.renderer.ClearConversation()
	case "/help", "/h", "/?":
		c.printHelp()
	default:
		c.notify(view.LevelWarning, fmt.Sprintf("unknown command: %s (type /help for commands)", cmd))
	}
	return true
}

// =============================================================================
// OUTPUT
// =============================================================================

// onChange prints thread changes as they happen.
func (c *Console) onChange(ch view.Change) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ch.Op {
	case view.OpAppend:
		if ch.Element.IsTyping() {
			if c.interactive {
				fmt.Fprint(c.out, c.theme.AssistantAvatar.Render(ch.Element.Avatar)+" "+
					c.theme.ThinkingText.Render("Nova is typing..."))
				c.typing = true
			}
			return
		}
		c.clearTypingLocked()
		if ch.Element.Role == model.RoleUser && c.interactive {
			return
		}
		c.printElementLocked(ch.Element)
	case view.OpRemove:
		if ch.Element.IsTyping() {
			c.clearTypingLocked()
		}
	case view.OpClear:
		c.clearTypingLocked()
		fmt.Fprintln(c.out, c.theme.HeaderHint.Render("--- new conversation ---"))
	}
}

func (c *Console) clearTypingLocked() {
	if c.typing {
		fmt.Fprint(c.out, clearLine)
		c.typing = false
	}
}

func (c *Console) printElementLocked(e view.Element) {
	avatar := c.theme.AssistantAvatar
	if e.Role == model.RoleUser {
		avatar = c.theme.UserAvatar
	}
	fmt.Fprintf(c.out, "%s %s\n%s\n\n",
		avatar.Render(e.Avatar),
		c.theme.RoleLabel.Render(e.Role.DisplayName()),
		e.Body)
}

func (c *Console) notify(level view.Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearTypingLocked()
	var line string
	switch level {
	case view.LevelError:
		line = styles.RenderError(message)
	case view.LevelWarning:
		line = styles.RenderWarning(message)
	default:
		line = styles.RenderInfo(message)
	}
	fmt.Fprintln(c.out, line)
}

func (c *Console) printHelp() {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, c.theme.HeaderTitle.Render("Commands"))
	for _, row := range [][2]string{
		{"/new", "start a new conversation"},
		{"/help", "show this help"},
		{"/quit", "exit"},
		{`\`, "at end of line, continue on the next line"},
		{"Ctrl+C", "cancel the request in flight"},
	} {
		fmt.Fprintf(c.out, "  %s  %s\n",
			c.theme.ShortcutKey.Render(fmt.Sprintf("%-7s", row[0])),
			c.theme.ShortcutDesc.Render(row[1]))
	}
}

// =============================================================================
// TERMINAL HELPERS
// =============================================================================

type fdReader interface {
	Fd() uintptr
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(fdReader)
	return ok && term.IsTerminal(int(f.Fd()))
}

func outputWidth(w io.Writer) int {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

func historyPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, historyFileName)
}
