// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import (
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
)

// MinInputHeight is the height of an empty input field, in lines.
const MinInputHeight = 1

// Field is the concrete Input. Programmatic changes bump a revision so the
// front-end can tell them apart from what the user typed.
type Field struct {
	mu      sync.Mutex
	value   string
	height  int
	enabled bool
	focused bool
	rev     uint64
	signal  *Signal
}

// NewField creates an enabled, empty field.
func NewField(sig *Signal) *Field {
	return &Field{
		height:  MinInputHeight,
		enabled: true,
		signal:  sig,
	}
}

// Value returns the current text.
func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// SetValue replaces the text.
func (f *Field) SetValue(v string) {
	f.update(func() { f.value = v })
}

// Height returns the field height in lines.
func (f *Field) Height() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.height
}

// SetHeight sets the field height. Values below MinInputHeight are raised.
func (f *Field) SetHeight(lines int) {
	if lines < MinInputHeight {
		lines = MinInputHeight
	}
	f.update(func() { f.height = lines })
}

// Focus gives the field keyboard focus.
func (f *Field) Focus() {
	f.update(func() { f.focused = true })
}

// Focused reports whether the field has been focused since the last Blur.
func (f *Field) Focused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

// Blur removes focus without bumping the revision; it mirrors a user action.
func (f *Field) Blur() {
	f.mu.Lock()
	f.focused = false
	f.mu.Unlock()
}

// Enabled reports whether the field accepts input.
func (f *Field) Enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

// SetEnabled enables or disables the field.
func (f *Field) SetEnabled(enabled bool) {
	f.update(func() { f.enabled = enabled })
}

// Edit records a user edit. It does not bump the revision.
func (f *Field) Edit(value string, height int) {
	if height < MinInputHeight {
		height = MinInputHeight
	}
	f.mu.Lock()
	f.value = value
	f.height = height
	f.mu.Unlock()
}

// Revision increments on every programmatic change.
func (f *Field) Revision() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rev
}

func (f *Field) update(fn func()) {
	f.mu.Lock()
	fn()
	f.rev++
	f.mu.Unlock()
	f.signal.Poke()
}

// AutoHeight returns the number of display lines text occupies when wrapped
// at width cells, clamped to [MinInputHeight, maxLines]. A width of zero or
// less disables wrapping; a maxLines of zero or less disables the cap.
func AutoHeight(text string, width, maxLines int) int {
	lines := 0
	for _, line := range strings.Split(text, "\n") {
		w := runewidth.StringWidth(line)
		if width <= 0 || w <= width {
			lines++
			continue
		}
		lines += (w + width - 1) / width
	}
	if lines < MinInputHeight {
		lines = MinInputHeight
	}
	if maxLines > 0 && lines > maxLines {
		lines = maxLines
	}
	return lines
}
