// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/nova-tui/internal/view"
)

func TestNewToastManager_DefaultDuration(t *testing.T) {
	m := NewToastManager(0, nil)
	m.Notify(view.LevelError, "boom")

	toasts := m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, DefaultToastDuration, toasts[0].Duration)
	assert.Equal(t, 5*time.Second, toasts[0].Duration)
	assert.Equal(t, view.LevelError, toasts[0].Level)
}

func TestToastIsExpired(t *testing.T) {
	toast := Toast{CreatedAt: time.Now().Add(-20 * time.Millisecond), Duration: 10 * time.Millisecond}
	assert.True(t, toast.IsExpired())
	assert.Equal(t, time.Duration(0), toast.TimeRemaining())

	fresh := Toast{CreatedAt: time.Now(), Duration: time.Second}
	assert.False(t, fresh.IsExpired())
}

func TestToastManager_AddRemove(t *testing.T) {
	m := NewToastManager(time.Second, nil)
	assert.False(t, m.HasToasts())

	id1 := m.Add(view.LevelError, "Error 1")
	m.Add(view.LevelWarning, "Warning 1")

	toasts := m.Toasts()
	require.Len(t, toasts, 2)
	assert.Equal(t, "Warning 1", toasts[0].Message, "newest first")

	m.Remove(id1)
	require.Len(t, m.Toasts(), 1)

	m.Clear()
	assert.False(t, m.HasToasts())
}

func TestToastManager_MaxToasts(t *testing.T) {
	m := NewToastManager(time.Second, nil)
	for i := 0; i < 10; i++ {
		m.Add(view.LevelInfo, "toast")
	}
	assert.Len(t, m.Toasts(), 5)
}

func TestToastManager_TickDropsExpired(t *testing.T) {
	m := NewToastManager(10*time.Millisecond, nil)
	m.Add(view.LevelInfo, "short lived")

	assert.Eventually(t, func() bool {
		return len(m.Tick()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestToastManager_PokesSignal(t *testing.T) {
	sig := view.NewSignal()
	m := NewToastManager(time.Second, sig)
	m.Notify(view.LevelWarning, "Cannot connect")

	select {
	case <-sig.C():
	default:
		t.Fatal("expected signal after Notify")
	}
}

func TestRenderToast(t *testing.T) {
	toast := Toast{Message: "Sorry, there was an error: bad request", Level: view.LevelError, CreatedAt: time.Now(), Duration: time.Second}
	out := RenderToast(toast, 100)
	assert.Contains(t, out, "bad request")

	assert.Equal(t, "", RenderToastStack(nil, 80))
}

func TestWrapToastText(t *testing.T) {
	wrapped := wrapToastText("one two three four five six", 10)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 10)
	}
	assert.Equal(t, "short", wrapToastText("short", 10))
}
