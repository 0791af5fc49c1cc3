// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestNewTheme_Defaults(t *testing.T) {
	theme := newTheme(true, termenv.Ascii)

	assert.True(t, theme.IsDark)
	assert.Equal(t, 80, theme.Width)
	assert.Equal(t, 24, theme.Height)
}

func TestTheme_ContentWidth(t *testing.T) {
	theme := newTheme(true, termenv.Ascii)

	theme.SetSize(100, 40)
	assert.Equal(t, 94, theme.ContentWidth())

	theme.SetSize(10, 5)
	assert.Equal(t, 20, theme.ContentWidth(), "content width has a floor")
}

func TestRenderHelpers_IncludeIndicators(t *testing.T) {
	assert.True(t, strings.Contains(RenderError("boom"), StatusIndicators.Error))
	assert.True(t, strings.Contains(RenderWarning("careful"), StatusIndicators.Warning))
	assert.True(t, strings.Contains(RenderInfo("fyi"), "fyi"))
}
