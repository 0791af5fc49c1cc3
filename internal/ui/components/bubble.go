// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nova-tui/internal/model"
	"github.com/jeranaias/nova-tui/internal/ui/styles"
	"github.com/jeranaias/nova-tui/internal/view"
)

// Bubble renders one conversation element.
type Bubble struct {
	Element view.Element
	Width   int

	// Spinner is the current spinner frame, shown for the typing element.
	Spinner string

	theme *styles.Theme
}

// NewBubble creates a bubble for e.
func NewBubble(e view.Element, theme *styles.Theme) *Bubble {
	return &Bubble{Element: e, Width: 80, theme: theme}
}

// View renders the bubble.
func (b *Bubble) View() string {
	if b.Element.IsTyping() {
		return b.renderTyping()
	}
	if b.Element.Role == model.RoleUser {
		return b.renderUser()
	}
	return b.renderAssistant()
}

// ==========================================================================
// USER BUBBLE - right-aligned
// ==========================================================================

func (b *Bubble) renderUser() string {
	body := b.body()
	contentWidth := minInt(lipgloss.Width(body)+4, b.maxBubbleWidth())

	bubble := b.theme.UserBubble.Width(contentWidth).Render(body)
	header := b.theme.RoleLabel.Render(model.RoleUser.DisplayName()) + " " +
		b.theme.UserAvatar.Render(b.Element.Avatar)

	return lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Right).
		Render(header + "\n" + bubble)
}

// ==========================================================================
// ASSISTANT BUBBLE - left-aligned
// ==========================================================================

func (b *Bubble) renderAssistant() string {
	body := b.body()
	contentWidth := minInt(lipgloss.Width(body)+4, b.maxBubbleWidth())

	bubble := b.theme.AssistantBubble.Width(contentWidth).Render(body)
	header := b.theme.AssistantAvatar.Render(b.Element.Avatar) + " " +
		b.theme.RoleLabel.Render(model.RoleAssistant.DisplayName())

	return header + "\n" + bubble
}

func (b *Bubble) renderTyping() string {
	frame := b.Spinner
	if frame == "" {
		frame = "..."
	}
	return b.theme.AssistantAvatar.Render(b.Element.Avatar) + " " +
		b.theme.Spinner.Render(frame) + " " +
		b.theme.ThinkingText.Render("Nova is typing")
}

func (b *Bubble) body() string {
	body := strings.TrimRight(b.Element.Body, "\n")
	if body == "" {
		return "..."
	}
	return body
}

func (b *Bubble) maxBubbleWidth() int {
	w := b.Width * 3 / 4
	if w < 24 {
		w = 24
	}
	return w
}

// RenderThread renders elements separated by blank lines.
func RenderThread(elems []view.Element, theme *styles.Theme, width int, spinner string) string {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		b := NewBubble(e, theme)
		b.Width = width
		b.Spinner = spinner
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "\n\n")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
