// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/nova-tui/internal/ui/styles"
)

func TestSplitLanguage(t *testing.T) {
	tests := []struct {
		block, lang, code string
	}{
		{"go\nfmt.Println(1)", "go", "fmt.Println(1)"},
		{"\nplain", "", "plain"},
		{"x := 1\ny := 2", "", "x := 1\ny := 2"},
		{"single line", "", "single line"},
	}
	for _, tt := range tests {
		lang, code := splitLanguage(tt.block)
		assert.Equal(t, tt.lang, lang, tt.block)
		assert.Equal(t, tt.code, code, tt.block)
	}
}

func TestFormatterFor(t *testing.T) {
	assert.Equal(t, "terminal16m", formatterFor(termenv.TrueColor))
	assert.Equal(t, "terminal256", formatterFor(termenv.ANSI256))
	assert.Equal(t, "terminal16", formatterFor(termenv.ANSI))
	assert.Equal(t, "", formatterFor(termenv.Ascii))
}

func TestHighlightCode(t *testing.T) {
	out, ok := highlightCode("package main\n\nfunc main() {}", "go", "terminal256")
	assert.True(t, ok)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "func")

	for _, name := range []string{"no-such-formatter", ""} {
		out, ok := highlightCode("x := 1", "go", name)
		assert.False(t, ok, name)
		assert.Equal(t, "x := 1", out, name)
	}
}

func TestCodeBlock_PlainOnAsciiTerminal(t *testing.T) {
	theme := styles.NewTheme()
	theme.ColorProfile = termenv.Ascii

	got := NewRules(Terminal(theme)).Format("```go\nx := 1\n```")
	assert.Contains(t, got, "x := 1")
	assert.NotContains(t, got, "```")
	assert.NotContains(t, got, "\x1b[")
	assert.NotContains(t, got, "go\n")
}
