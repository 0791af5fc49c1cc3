// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/nova-tui/internal/chat"
	"github.com/jeranaias/nova-tui/internal/format"
	"github.com/jeranaias/nova-tui/internal/ui/components"
	"github.com/jeranaias/nova-tui/internal/ui/styles"
	"github.com/jeranaias/nova-tui/internal/view"
)

// DefaultMaxInputLines caps the auto-resized input height.
const DefaultMaxInputLines = 6

// defaultWrapWidth is used by width-aware formatters before the first resize.
const defaultWrapWidth = 80

// Pinger checks that the backend is reachable.
type Pinger interface {
	CheckConnectivity(ctx context.Context) (map[string]any, error)
}

// Options configures the TUI.
type Options struct {
	// Sender delivers messages. Required.
	Sender chat.Sender

	// Pinger runs the startup connectivity check. Optional.
	Pinger Pinger

	Theme          *styles.Theme
	Formatter      string
	Greeting       string
	MaxInputLines  int
	ScrollDelay    time.Duration
	NoticeDuration time.Duration
	Logger         *zap.Logger
}

// =============================================================================
// MODEL
// =============================================================================

// Focus identifies the control holding keyboard focus.
type Focus int

const (
	FocusInput Focus = iota
	FocusSend
)

// Model is the Bubble Tea model of the chat screen.
type Model struct {
	ctx    context.Context
	theme  *styles.Theme
	keys   KeyMap
	logger *zap.Logger

	// Dimensions
	width  int
	height int

	// Bubbles components
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	// View context shared with the controller
	signal *view.Signal
	thread *view.Thread
	field  *view.Field
	send   *view.Button
	toasts *components.ToastManager

	renderer   *chat.Renderer
	controller *chat.Controller
	pinger     Pinger

	focus         Focus
	maxInputLines int
	fieldRev      uint64
	scrollRev     uint64
	spinning      bool
	toastTicking  bool
	quitting      bool
}

// New builds the model and renders the greeting.
func New(ctx context.Context, opts Options) (Model, error) {
	if opts.Sender == nil {
		return Model{}, fmt.Errorf("tui: a sender is required")
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxLines := opts.MaxInputLines
	if maxLines <= 0 {
		maxLines = DefaultMaxInputLines
	}

	formatter, err := format.New(opts.Formatter, theme, defaultWrapWidth)
	if err != nil {
		return Model{}, err
	}

	sig := view.NewSignal()
	m := Model{
		ctx:           ctx,
		theme:         theme,
		keys:          DefaultKeyMap(),
		logger:        logger,
		viewport:      viewport.New(defaultWrapWidth, 10),
		input:         newInput(),
		spinner:       newSpinner(theme),
		signal:        sig,
		thread:        view.NewThread(sig),
		field:         view.NewField(sig),
		send:          view.NewButton(sig),
		toasts:        components.NewToastManager(opts.NoticeDuration, sig),
		pinger:        opts.Pinger,
		maxInputLines: maxLines,
	}

	var ropts []chat.RendererOption
	if opts.Greeting != "" {
		ropts = append(ropts, chat.WithGreeting(opts.Greeting))
	}
	if opts.ScrollDelay > 0 {
		ropts = append(ropts, chat.WithScrollDelay(opts.ScrollDelay))
	}
	ropts = append(ropts, chat.WithRendererLogger(logger))
	m.renderer = chat.NewRenderer(m.thread, formatter, ropts...)

	vc := view.Context{
		Conversation: m.thread,
		Input:        m.field,
		Submit:       m.send,
		Notifier:     m.toasts,
	}
	m.controller = chat.NewController(vc, m.renderer, opts.Sender, chat.WithLogger(logger))

	m.renderer.ClearConversation()
	m.field.Focus()
	m.applyField()
	m.refresh()
	return m, nil
}

func newInput() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetHeight(view.MinInputHeight)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()
	return ta
}

func newSpinner(theme *styles.Theme) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Spinner
	return s
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Thread returns the conversation container.
func (m Model) Thread() *view.Thread { return m.thread }

// Field returns the input field element.
func (m Model) Field() *view.Field { return m.field }

// SendButton returns the submit control.
func (m Model) SendButton() *view.Button { return m.send }

// Toasts returns the notifier.
func (m Model) Toasts() *components.ToastManager { return m.toasts }

// Controller returns the submission controller.
func (m Model) Controller() *chat.Controller { return m.controller }

// Focused returns the control that holds keyboard focus.
func (m Model) Focused() Focus { return m.focus }

// InputValue returns the text currently in the input box.
func (m Model) InputValue() string { return m.input.Value() }

// InputHeight returns the current input height in lines.
func (m Model) InputHeight() int { return m.input.Height() }
