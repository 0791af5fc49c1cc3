// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file implements non-blocking toasts. Unlike modal dialogs, toasts
// appear in the bottom-right corner and auto-dismiss, so the user can keep
// typing while a notice is displayed.
package components

import (
	"strconv"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nova-tui/internal/ui/styles"
	"github.com/jeranaias/nova-tui/internal/view"
)

// DefaultToastDuration is how long a toast stays on screen.
const DefaultToastDuration = 5 * time.Second

// toastTickInterval is how often expired toasts are swept.
const toastTickInterval = 100 * time.Millisecond

// =============================================================================
// TOAST
// =============================================================================

// Toast represents a non-blocking notice.
type Toast struct {
	ID        int
	Message   string
	Level     view.Level
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the toast should be dismissed.
func (t *Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// TimeRemaining returns how much time is left before auto-dismiss.
func (t *Toast) TimeRemaining() time.Duration {
	remaining := t.Duration - time.Since(t.CreatedAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager manages the visible toasts. It is safe for concurrent use and
// implements view.Notifier.
type ToastManager struct {
	toasts    []Toast
	nextID    int
	maxToasts int
	duration  time.Duration
	signal    *view.Signal
	mutex     sync.Mutex
}

// NewToastManager creates a toast manager. A non-positive duration selects
// DefaultToastDuration. sig, if non-nil, is poked whenever a toast is added.
func NewToastManager(duration time.Duration, sig *view.Signal) *ToastManager {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &ToastManager{
		nextID:    1,
		maxToasts: 5,
		duration:  duration,
		signal:    sig,
	}
}

// Notify adds a toast for the given level.
func (m *ToastManager) Notify(level view.Level, message string) {
	m.Add(level, message)
}

// Add adds a toast and returns its ID.
func (m *ToastManager) Add(level view.Level, message string) int {
	m.mutex.Lock()
	toast := Toast{
		ID:        m.nextID,
		Message:   message,
		Level:     level,
		CreatedAt: time.Now(),
		Duration:  m.duration,
	}
	m.nextID++

	// Newest first
	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	m.mutex.Unlock()

	m.signal.Poke()
	return toast.ID
}

// Remove removes a toast by ID.
func (m *ToastManager) Remove(id int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for i, toast := range m.toasts {
		if toast.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Tick removes expired toasts and returns the remaining ones.
func (m *ToastManager) Tick() []Toast {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	active := make([]Toast, 0, len(m.toasts))
	for _, toast := range m.toasts {
		if !toast.IsExpired() {
			active = append(active, toast)
		}
	}
	m.toasts = active

	result := make([]Toast, len(active))
	copy(result, active)
	return result
}

// Toasts returns a copy of the current toasts, newest first.
func (m *ToastManager) Toasts() []Toast {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	result := make([]Toast, len(m.toasts))
	copy(result, m.toasts)
	return result
}

// HasToasts returns true if there are any active toasts.
func (m *ToastManager) HasToasts() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.toasts) > 0
}

// Clear removes all toasts.
func (m *ToastManager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.toasts = nil
}

// =============================================================================
// TOAST MESSAGES
// =============================================================================

// ToastTickMsg is sent periodically while toasts are visible.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd returns a command that ticks toasts every 100ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

func levelStyle(level view.Level) (lipgloss.AdaptiveColor, string) {
	switch level {
	case view.LevelError:
		return styles.Rose, styles.StatusIndicators.Error
	case view.LevelWarning:
		return styles.Amber, styles.StatusIndicators.Warning
	case view.LevelSuccess:
		return styles.Emerald, styles.StatusIndicators.Success
	default:
		return styles.Cyan, styles.StatusIndicators.Info
	}
}

// RenderToast renders a single toast.
func RenderToast(toast Toast, width int) string {
	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	color, icon := levelStyle(toast.Level)

	iconStyle := lipgloss.NewStyle().
		Foreground(color).
		Bold(true)

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Width(maxWidth - 8)

	content := iconStyle.Render(icon+" ") + messageStyle.Render(wrapToastText(toast.Message, maxWidth-10))

	if secs := int(toast.TimeRemaining().Seconds()); secs > 0 {
		hintStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
		content += "\n" + hintStyle.Render(strconv.Itoa(secs)+"s")
	}

	toastStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 2).
		MaxWidth(maxWidth)

	return toastStyle.Render(content)
}

// RenderToastStack renders toasts stacked vertically, right-aligned.
func RenderToastStack(toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		rendered = append(rendered, RenderToast(toast, width))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)

	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
	}
	return stack
}

// wrapToastText performs simple word wrapping for toast messages.
func wrapToastText(text string, maxWidth int) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= maxWidth {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n")
}
