// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/nova-tui/internal/model"
	"github.com/jeranaias/nova-tui/internal/ui/styles"
	"github.com/jeranaias/nova-tui/internal/view"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestBubble_User(t *testing.T) {
	theme := styles.NewTheme()
	b := NewBubble(view.ElementFor(model.NewMessage(model.RoleUser, "hi"), "U", "hi there"), theme)
	out := b.View()

	assert.Contains(t, out, "hi there")
	assert.Contains(t, out, "You")
}

func TestBubble_Assistant(t *testing.T) {
	theme := styles.NewTheme()
	b := NewBubble(view.ElementFor(model.NewMessage(model.RoleAssistant, "hello"), "N", "hello"), theme)
	out := b.View()

	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "Nova")
}

func TestBubble_Typing(t *testing.T) {
	theme := styles.NewTheme()
	b := NewBubble(view.NewTypingElement("N"), theme)
	b.Spinner = "*"

	assert.Contains(t, b.View(), "Nova is typing")
}

func TestRenderThread(t *testing.T) {
	theme := styles.NewTheme()
	elems := []view.Element{
		view.ElementFor(model.NewMessage(model.RoleAssistant, "greeting"), "N", "greeting"),
		view.ElementFor(model.NewMessage(model.RoleUser, "question"), "U", "question"),
	}
	out := RenderThread(elems, theme, 60, "")

	assert.Contains(t, out, "greeting")
	assert.Contains(t, out, "question")
	assert.Equal(t, "", RenderThread(nil, theme, 60, ""))
}
