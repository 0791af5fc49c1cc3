// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import "sync"

// Button is the concrete Control.
type Button struct {
	mu      sync.Mutex
	enabled bool
	signal  *Signal
}

// NewButton creates an enabled button.
func NewButton(sig *Signal) *Button {
	return &Button{enabled: true, signal: sig}
}

// Enabled reports whether the button can be pressed.
func (b *Button) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

// SetEnabled enables or disables the button.
func (b *Button) SetEnabled(enabled bool) {
	b.mu.Lock()
	b.enabled = enabled
	b.mu.Unlock()
	b.signal.Poke()
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(level Level, message string)

// Notify calls f.
func (f NotifierFunc) Notify(level Level, message string) {
	f(level, message)
}
