// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/nova-tui/internal/model"
)

// Kind identifies what a conversation element displays.
type Kind int

const (
	// KindMessage is a rendered user or assistant message.
	KindMessage Kind = iota
	// KindTyping is the "assistant is typing" placeholder.
	KindTyping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindTyping:
		return "typing"
	default:
		return "unknown"
	}
}

// Element is one entry of the conversation view.
type Element struct {
	ID     string
	Kind   Kind
	Role   model.Role
	Avatar string

	// Body is the formatted content ready for display.
	Body string

	// Raw is the content before formatting.
	Raw string

	CreatedAt time.Time
}

// ElementFor creates the element displaying msg. The element shares the
// message's ID.
func ElementFor(msg model.Message, avatar, body string) Element {
	return Element{
		ID:        msg.ID,
		Kind:      KindMessage,
		Role:      msg.Role,
		Avatar:    avatar,
		Body:      body,
		Raw:       msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

// NewTypingElement creates the typing placeholder element.
func NewTypingElement(avatar string) Element {
	return Element{
		ID:        uuid.NewString(),
		Kind:      KindTyping,
		Role:      model.RoleAssistant,
		Avatar:    avatar,
		CreatedAt: time.Now(),
	}
}

// IsTyping reports whether the element is the typing placeholder.
func (e Element) IsTyping() bool {
	return e.Kind == KindTyping
}

// Conversation is the ordered container of conversation elements.
type Conversation interface {
	Append(e Element)
	Remove(id string) bool
	Clear()
	Elements() []Element

	// ScrollToBottom brings the newest element into view.
	ScrollToBottom()

	// Attached reports whether the container is still part of a live view.
	Attached() bool
}

// Input is the text field the user composes messages in.
type Input interface {
	Value() string
	SetValue(v string)
	SetHeight(lines int)
	Focus()
	Enabled() bool
	SetEnabled(enabled bool)
}

// Control is a clickable control such as the send button.
type Control interface {
	Enabled() bool
	SetEnabled(enabled bool)
}

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier shows transient, auto-dismissing notices.
type Notifier interface {
	Notify(level Level, message string)
}

// Context is everything the chat pipeline needs from the front-end.
type Context struct {
	Conversation Conversation
	Input        Input
	Submit       Control
	Notifier     Notifier
}

// Valid reports whether every member of the context is set.
func (c Context) Valid() bool {
	return c.Conversation != nil && c.Input != nil && c.Submit != nil && c.Notifier != nil
}
