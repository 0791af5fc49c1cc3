// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/nova-tui/internal/format"
	"github.com/jeranaias/nova-tui/internal/model"
	"github.com/jeranaias/nova-tui/internal/view"
)

const (
	// DefaultGreeting is shown by ClearConversation.
	DefaultGreeting = "Hello! I'm Nova AI, your intelligent assistant. How can I help you today?"

	// DefaultScrollDelay lets the view settle before scrolling to the bottom.
	DefaultScrollDelay = 100 * time.Millisecond
)

// Avatars are the glyphs shown next to each role.
type Avatars struct {
	User      string
	Assistant string
}

// DefaultAvatars is the avatar set used unless overridden.
var DefaultAvatars = Avatars{User: "●", Assistant: "✦"}

// For returns the avatar for role.
func (a Avatars) For(role model.Role) string {
	if role == model.RoleUser {
		return a.User
	}
	return a.Assistant
}

// Renderer draws messages into a conversation view.
type Renderer struct {
	conv        view.Conversation
	formatter   format.Formatter
	greeting    string
	scrollDelay time.Duration
	avatars     Avatars
	logger      *zap.Logger

	// mu serialises the typing placeholder check-and-append.
	mu sync.Mutex
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithGreeting overrides the greeting shown on a cleared conversation.
func WithGreeting(s string) RendererOption {
	return func(r *Renderer) {
		if s != "" {
			r.greeting = s
		}
	}
}

// WithScrollDelay overrides the delay before scrolling to the bottom.
func WithScrollDelay(d time.Duration) RendererOption {
	return func(r *Renderer) {
		if d >= 0 {
			r.scrollDelay = d
		}
	}
}

// WithAvatars overrides the role avatars.
func WithAvatars(a Avatars) RendererOption {
	return func(r *Renderer) { r.avatars = a }
}

// WithRendererLogger sets the renderer's logger.
func WithRendererLogger(l *zap.Logger) RendererOption {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRenderer creates a renderer drawing into conv. A nil formatter selects
// the HTML rules.
func NewRenderer(conv view.Conversation, f format.Formatter, opts ...RendererOption) *Renderer {
	if f == nil {
		f = format.FormatterFunc(format.Text)
	}
	r := &Renderer{
		conv:        conv,
		formatter:   f,
		greeting:    DefaultGreeting,
		scrollDelay: DefaultScrollDelay,
		avatars:     DefaultAvatars,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderMessage appends a message for role and schedules a scroll to the
// bottom. Any live typing placeholder is removed first.
func (r *Renderer) RenderMessage(role model.Role, content string) view.Element {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeTypingLocked()
	msg := model.NewMessage(role, content)
	e := view.ElementFor(msg, r.avatars.For(role), r.formatter.Format(content))
	r.conv.Append(e)
	r.logger.Debug("rendered message",
		zap.String("id", msg.ID),
		zap.String("role", role.String()),
		zap.String("preview", msg.Preview(40)))
	r.scheduleScroll()
	return e
}

// ShowTyping appends the typing placeholder. It does nothing when one is
// already shown.
func (r *Renderer) ShowTyping() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.conv.Elements() {
		if e.IsTyping() {
			return
		}
	}
	r.conv.Append(view.NewTypingElement(r.avatars.Assistant))
	r.scheduleScroll()
}

// RemoveTyping removes the typing placeholder if present.
func (r *Renderer) RemoveTyping() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeTypingLocked()
}

// ClearConversation empties the view and renders the greeting.
func (r *Renderer) ClearConversation() {
	r.mu.Lock()
	r.conv.Clear()
	r.mu.Unlock()

	r.RenderMessage(model.RoleAssistant, r.greeting)
}

// Greeting returns the greeting text.
func (r *Renderer) Greeting() string {
	return r.greeting
}

func (r *Renderer) removeTypingLocked() {
	for _, e := range r.conv.Elements() {
		if e.IsTyping() {
			r.conv.Remove(e.ID)
		}
	}
}

// scheduleScroll scrolls after the configured delay, unless the container
// has been detached by then.
func (r *Renderer) scheduleScroll() {
	conv := r.conv
	time.AfterFunc(r.scrollDelay, func() {
		if !conv.Attached() {
			return
		}
		conv.ScrollToBottom()
	})
}
