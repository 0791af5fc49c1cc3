// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Markdown renders messages as full Markdown with glamour.
type Markdown struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	fallback Formatter
}

// NewMarkdown creates a glamour-backed formatter wrapping at width columns.
// fallback is used when rendering fails; nil falls back to the raw text.
func NewMarkdown(width int, fallback Formatter) (*Markdown, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	if fallback == nil {
		fallback = FormatterFunc(func(s string) string { return s })
	}
	return &Markdown{renderer: r, fallback: fallback}, nil
}

// Format renders s. Empty input yields "".
func (m *Markdown) Format(s string) string {
	if s == "" {
		return ""
	}
	m.mu.Lock()
	out, err := m.renderer.Render(s)
	m.mu.Unlock()
	if err != nil {
		return m.fallback.Format(s)
	}
	return strings.Trim(out, "\n")
}
