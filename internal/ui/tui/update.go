// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/nova-tui/internal/chat"
	"github.com/jeranaias/nova-tui/internal/ui/components"
	"github.com/jeranaias/nova-tui/internal/view"
)

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the change listener and the connectivity check.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, waitForChange(m.signal)}
	if m.pinger != nil {
		cmds = append(cmds, m.checkConnectivity())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case changeMsg:
		cmd := m.sync()
		return m, tea.Batch(cmd, waitForChange(m.signal))

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case connectivityMsg:
		return m.handleConnectivity(msg)

	case components.ToastTickMsg:
		m.toasts.Tick()
		m.layout()
		if !m.toasts.HasToasts() {
			m.toastTicking = false
			return m, nil
		}
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		if !m.spinning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.layout()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.controller.Abort()
		m.thread.Detach()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Abort):
		if m.controller.Abort() {
			m.logger.Info("request aborted from keyboard")
		}
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Clear):
		if !m.controller.Busy() {
			m.renderer.ClearConversation()
		}
		return m, nil

	case key.Matches(msg, m.keys.FocusNext):
		return m.toggleFocus()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	if m.focus == FocusSend {
		if key.Matches(msg, m.keys.Press) {
			return m.submit()
		}
		return m, nil
	}
	return m.handleTyping(msg)
}

// handleTyping forwards a key to the textarea and resizes it to fit.
func (m Model) handleTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.field.Enabled() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	value := m.input.Value()
	height := view.AutoHeight(value, m.input.Width(), m.maxInputLines)
	m.field.Edit(value, height)
	if height != m.input.Height() {
		m.input.SetHeight(height)
		m.layout()
	}
	return m, cmd
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == FocusInput {
		m.focus = FocusSend
		m.field.Blur()
		m.input.Blur()
		return m, nil
	}
	m.focus = FocusInput
	m.field.Focus()
	return m, m.input.Focus()
}

// submit hands the input text to the controller on a command goroutine.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.send.Enabled() || m.controller.Busy() {
		return m, nil
	}
	raw := m.input.Value()
	if chat.Normalize(raw) == "" {
		return m, nil
	}

	// Locked until Submit's completion path re-enables them.
	m.field.SetEnabled(false)
	m.send.SetEnabled(false)
	m.applyField()

	ctrl, ctx := m.controller, m.ctx
	cmds := []tea.Cmd{func() tea.Msg {
		return submitDoneMsg{err: ctrl.Submit(ctx, raw)}
	}}
	if !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.spinning = false
	switch {
	case errors.Is(msg.err, chat.ErrBusy):
		m.logger.Debug("submission rejected", zap.Error(msg.err))
	case msg.err != nil:
		m.logger.Debug("submission finished with error", zap.Error(msg.err))
	}
	cmd := m.sync()
	return m, cmd
}

func (m Model) handleConnectivity(msg connectivityMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("connectivity check failed", zap.Error(msg.err))
		m.toasts.Add(view.LevelWarning, chat.ConnectivityWarning)
		return m, m.sync()
	}
	m.logger.Debug("backend reachable", zap.Int("fields", len(msg.payload)))
	return m, nil
}

func (m Model) checkConnectivity() tea.Cmd {
	p, ctx := m.pinger, m.ctx
	return func() tea.Msg {
		payload, err := p.CheckConnectivity(ctx)
		return connectivityMsg{payload: payload, err: err}
	}
}

// =============================================================================
// VIEW STATE SYNC
// =============================================================================

// sync pulls the shared elements into the bubbles components.
func (m *Model) sync() tea.Cmd {
	cmd := m.applyField()
	m.layout()
	if m.toasts.HasToasts() && !m.toastTicking {
		m.toastTicking = true
		return tea.Batch(cmd, components.ToastTickCmd())
	}
	return cmd
}

// applyField copies programmatic field changes into the textarea.
func (m *Model) applyField() tea.Cmd {
	rev := m.field.Revision()
	if rev == m.fieldRev {
		return nil
	}
	m.fieldRev = rev

	if v := m.field.Value(); v != m.input.Value() {
		m.input.SetValue(v)
	}
	m.input.SetHeight(m.field.Height())

	if !m.field.Enabled() {
		m.input.Blur()
		return nil
	}
	if m.field.Focused() {
		m.focus = FocusInput
		return m.input.Focus()
	}
	return nil
}

// layout sizes the input and viewport from the rendered chrome.
func (m *Model) layout() {
	if m.width > 0 && m.height > 0 {
		m.input.SetWidth(max(m.width-sendButtonWidth-inputFrameWidth, minInputWidth))

		reserved := lipgloss.Height(m.renderHeader()) +
			lipgloss.Height(m.renderInput()) +
			lipgloss.Height(m.renderStatusBar())
		if toasts := m.renderToasts(); toasts != "" {
			reserved += lipgloss.Height(toasts)
		}
		m.viewport.Width = m.width
		m.viewport.Height = max(m.height-reserved, 1)
	}
	m.refresh()
}

// refresh re-renders the thread into the viewport.
func (m *Model) refresh() {
	content := components.RenderThread(m.thread.Elements(), m.theme, m.viewport.Width, m.spinner.View())
	m.viewport.SetContent(content)
	if rev := m.thread.ScrollRevision(); rev != m.scrollRev {
		m.scrollRev = rev
		m.viewport.GotoBottom()
	}
}
