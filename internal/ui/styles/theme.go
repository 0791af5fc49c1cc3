// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderHint  lipgloss.Style

	// Message bubbles
	UserAvatar      lipgloss.Style
	AssistantAvatar lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style

	// Inline markup
	Strong     lipgloss.Style
	Emphasis   lipgloss.Style
	InlineCode lipgloss.Style
	CodeBlock  lipgloss.Style

	// Input area
	InputBox         lipgloss.Style
	InputBoxDisabled lipgloss.Style
	SendButton       lipgloss.Style
	SendButtonFocus  lipgloss.Style
	SendButtonOff    lipgloss.Style

	// Typing placeholder
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// NewTheme creates a theme using the detected terminal background.
func NewTheme() *Theme {
	return newTheme(lipgloss.HasDarkBackground(), lipgloss.ColorProfile())
}

// NewThemeNamed creates a theme for an explicit "dark" or "light" name.
// Any other name falls back to detection.
func NewThemeNamed(name string) *Theme {
	switch name {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	}
	return NewTheme()
}

func newTheme(dark bool, profile termenv.Profile) *Theme {
	t := &Theme{
		IsDark:       dark,
		ColorProfile: profile,
		Width:        80,
		Height:       24,
	}

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)
	t.HeaderHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UserAvatar = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.AssistantAvatar = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)
	t.RoleLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Strong = lipgloss.NewStyle().Bold(true)
	t.Emphasis = lipgloss.NewStyle().Italic(true)
	t.InlineCode = lipgloss.NewStyle().
		Foreground(CodeFg).
		Background(CodeBg)
	t.CodeBlock = lipgloss.NewStyle().
		Foreground(CodeFg).
		Background(CodeBg).
		Padding(0, 1)

	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan)
	t.InputBoxDisabled = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)
	t.SendButton = lipgloss.NewStyle().
		Foreground(Purple).
		Padding(0, 1)
	t.SendButtonFocus = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 1)
	t.SendButtonOff = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)

	t.Spinner = lipgloss.NewStyle().Foreground(Violet)
	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextMuted).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	return t
}

// SetSize updates the theme's layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// ContentWidth returns the usable width for message bubbles.
func (t *Theme) ContentWidth() int {
	w := t.Width - 6
	if w < 20 {
		return 20
	}
	return w
}
