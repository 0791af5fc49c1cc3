// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nova-tui/internal/ui/components"
)

const (
	sendButtonWidth = 8 // " Send " plus a gap
	inputFrameWidth = 2
	minInputWidth   = 10
	appTitle        = "✦ Nova AI"
)

// View renders the screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	parts := []string{m.renderHeader(), m.viewport.View()}
	if toasts := m.renderToasts(); toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, m.renderInput(), m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render(appTitle)
	hint := m.theme.HeaderHint.Render("  your intelligent assistant")
	return m.theme.Header.Width(m.width).Render(title + hint)
}

func (m Model) renderToasts() string {
	toasts := m.toasts.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	stack := components.RenderToastStack(toasts, min(m.width, 60))
	return lipgloss.NewStyle().Width(m.width).Align(lipgloss.Right).Render(stack)
}

func (m Model) renderInput() string {
	box := m.theme.InputBox
	if !m.field.Enabled() {
		box = m.theme.InputBoxDisabled
	}
	input := box.Render(m.input.View())

	button := m.theme.SendButton
	switch {
	case !m.send.Enabled():
		button = m.theme.SendButtonOff
	case m.focus == FocusSend:
		button = m.theme.SendButtonFocus
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, input, " ", button.Render("Send"))
}

func (m Model) renderStatusBar() string {
	var state string
	if m.controller.Busy() {
		state = m.spinner.View() + " " + m.controller.State().String()
	} else {
		state = m.controller.State().String()
	}

	shortcuts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		shortcuts = append(shortcuts, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}

	return m.theme.StatusBar.Width(m.width).Render(state + "  " + strings.Join(shortcuts, "  "))
}
