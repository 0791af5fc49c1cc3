// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"

	"github.com/jeranaias/nova-tui/internal/ui/styles"
)

const highlightStyle = "monokai"

// splitLanguage separates an optional language tag on the first line of a
// fenced block from the code itself.
func splitLanguage(block string) (lang, code string) {
	first, rest, found := strings.Cut(block, "\n")
	if !found {
		return "", block
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return "", rest
	}
	if strings.ContainsAny(first, " \t(){};=") {
		return "", block
	}
	return first, rest
}

// formatterFor picks the chroma terminal formatter for a colour profile.
// It returns "" when the profile cannot show colour.
func formatterFor(profile termenv.Profile) string {
	switch profile {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal16"
	default:
		return ""
	}
}

// highlightCode renders code with chroma. It returns ok=false when no
// highlighting was applied.
func highlightCode(code, language, formatterName string) (string, bool) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(highlightStyle)
	if style == nil {
		style = chromaStyles.Fallback
	}
	// formatters.Get falls back to a plain formatter for unknown names.
	formatter, ok := formatters.Registry[formatterName]
	if !ok {
		return code, false
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, false
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code, false
	}
	return strings.TrimRight(buf.String(), "\n"), true
}

// codeBlock returns the terminal wrapper for fenced blocks. Colour terminals
// get syntax highlighting; others get the theme's code block style.
func codeBlock(theme *styles.Theme) func(string) string {
	name := formatterFor(theme.ColorProfile)
	return func(block string) string {
		lang, code := splitLanguage(block)
		code = strings.Trim(code, "\n")
		if name != "" {
			if out, ok := highlightCode(code, lang, name); ok {
				return out
			}
		}
		return theme.CodeBlock.Render(code)
	}
}
