// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nova-tui/internal/ui/styles"
)

// Markup holds one wrapper per rule plus the line-break marker.
type Markup struct {
	Bold       func(string) string
	Italic     func(string) string
	CodeBlock  func(string) string
	InlineCode func(string) string
	LineBreak  string
}

func (m Markup) withDefaults() Markup {
	identity := func(s string) string { return s }
	if m.Bold == nil {
		m.Bold = identity
	}
	if m.Italic == nil {
		m.Italic = identity
	}
	if m.CodeBlock == nil {
		m.CodeBlock = identity
	}
	if m.InlineCode == nil {
		m.InlineCode = identity
	}
	return m
}

func tag(open, close string) func(string) string {
	return func(s string) string { return open + s + close }
}

// render adapts a lipgloss style to a single-string wrapper.
func render(style lipgloss.Style) func(string) string {
	return func(s string) string { return style.Render(s) }
}

// HTML is the markup used by the web page the chat backend was built for.
var HTML = Markup{
	Bold:       tag("<strong>", "</strong>"),
	Italic:     tag("<em>", "</em>"),
	CodeBlock:  tag("<pre><code>", "</code></pre>"),
	InlineCode: tag("<code>", "</code>"),
	LineBreak:  "<br>",
}

// Terminal returns markup that styles matches with the theme's lipgloss
// styles. Fenced blocks are syntax highlighted on colour terminals. A nil
// theme uses a fresh default theme.
func Terminal(theme *styles.Theme) Markup {
	if theme == nil {
		theme = styles.NewTheme()
	}
	return Markup{
		Bold:       render(theme.Strong),
		Italic:     render(theme.Emphasis),
		CodeBlock:  codeBlock(theme),
		InlineCode: render(theme.InlineCode),
		LineBreak:  "\n",
	}
}
