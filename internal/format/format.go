// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package format converts the lightweight markup used in chat messages into
// display markup.
//
// Five rules are applied in a fixed order:
//
//	**bold**        -> Markup.Bold
//	*italic*        -> Markup.Italic
//	```fenced```    -> Markup.CodeBlock (may span lines)
//	`inline`        -> Markup.InlineCode
//	newline         -> Markup.LineBreak
//
// Bold and italic are non-greedy and never cross a line. Input is not
// escaped; markup already present in the text passes through untouched.
package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jeranaias/nova-tui/internal/ui/styles"
)

// Formatter turns raw message text into display text.
type Formatter interface {
	Format(s string) string
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(string) string

// Format calls f.
func (f FormatterFunc) Format(s string) string {
	return f(s)
}

var (
	boldPattern       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern     = regexp.MustCompile(`\*(.*?)\*`)
	codeBlockPattern  = regexp.MustCompile("```([\\s\\S]*?)```")
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
)

// Rules applies the markup rules with a given Markup.
type Rules struct {
	markup Markup
}

// NewRules creates a rule-based formatter. Nil wrappers in m leave the
// matched text unwrapped.
func NewRules(m Markup) *Rules {
	return &Rules{markup: m.withDefaults()}
}

// Format applies the rules to s. Empty input yields "".
func (r *Rules) Format(s string) string {
	if s == "" {
		return ""
	}
	s = replaceSubmatch(boldPattern, s, r.markup.Bold)
	s = replaceSubmatch(italicPattern, s, r.markup.Italic)
	s = replaceSubmatch(codeBlockPattern, s, r.markup.CodeBlock)
	s = replaceSubmatch(inlineCodePattern, s, r.markup.InlineCode)
	return strings.ReplaceAll(s, "\n", r.markup.LineBreak)
}

// replaceSubmatch replaces every match of re with wrap applied to its first
// capture group.
func replaceSubmatch(re *regexp.Regexp, s string, wrap func(string) string) string {
	return re.ReplaceAllStringFunc(s, func(match string) string {
		sub := re.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		return wrap(sub[1])
	})
}

var htmlRules = NewRules(HTML)

// Text formats s with the HTML markup.
func Text(s string) string {
	return htmlRules.Format(s)
}

// Formatter names accepted by New.
const (
	NameRules    = "rules"
	NameMarkdown = "markdown"
	NameHTML     = "html"
)

// New returns the formatter registered under name. Terminal formatters are
// styled with theme and wrap at width.
func New(name string, theme *styles.Theme, width int) (Formatter, error) {
	switch name {
	case "", NameRules:
		return NewRules(Terminal(theme)), nil
	case NameMarkdown:
		return NewMarkdown(width, NewRules(Terminal(theme)))
	case NameHTML:
		return htmlRules, nil
	default:
		return nil, fmt.Errorf("unknown formatter %q (want %s, %s or %s)", name, NameRules, NameMarkdown, NameHTML)
	}
}
