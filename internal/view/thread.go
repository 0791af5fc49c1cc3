// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

import "sync"

// Op is the kind of change applied to a Thread.
type Op int

const (
	OpAppend Op = iota
	OpRemove
	OpClear
	OpScroll
)

// Change describes a single Thread mutation. Element is zero for OpClear and
// OpScroll.
type Change struct {
	Op      Op
	Element Element
}

// Thread is the concrete Conversation. It is safe for concurrent use.
type Thread struct {
	mu        sync.Mutex
	elems     []Element
	detached  bool
	scrollRev uint64
	observers []func(Change)
	signal    *Signal
}

// NewThread creates an empty, attached thread.
func NewThread(sig *Signal) *Thread {
	return &Thread{signal: sig}
}

// Observe registers fn to be called after every change. Observers run on the
// goroutine that made the change, outside the thread's lock.
func (t *Thread) Observe(fn func(Change)) {
	t.mu.Lock()
	t.observers = append(t.observers, fn)
	t.mu.Unlock()
}

// Append adds e at the end of the thread.
func (t *Thread) Append(e Element) {
	t.mu.Lock()
	t.elems = append(t.elems, e)
	t.mu.Unlock()
	t.changed(Change{Op: OpAppend, Element: e})
}

// Remove deletes the element with the given ID. It reports whether an element
// was removed.
func (t *Thread) Remove(id string) bool {
	t.mu.Lock()
	var removed Element
	found := false
	for i, e := range t.elems {
		if e.ID == id {
			removed = e
			t.elems = append(t.elems[:i:i], t.elems[i+1:]...)
			found = true
			break
		}
	}
	t.mu.Unlock()
	if found {
		t.changed(Change{Op: OpRemove, Element: removed})
	}
	return found
}

// Clear removes every element.
func (t *Thread) Clear() {
	t.mu.Lock()
	t.elems = nil
	t.mu.Unlock()
	t.changed(Change{Op: OpClear})
}

// Elements returns a copy of the current elements in display order.
func (t *Thread) Elements() []Element {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Element, len(t.elems))
	copy(out, t.elems)
	return out
}

// ScrollToBottom requests that the newest element be brought into view.
// It is ignored once the thread is detached.
func (t *Thread) ScrollToBottom() {
	t.mu.Lock()
	if t.detached {
		t.mu.Unlock()
		return
	}
	t.scrollRev++
	t.mu.Unlock()
	t.changed(Change{Op: OpScroll})
}

// ScrollRevision increments on every accepted ScrollToBottom.
func (t *Thread) ScrollRevision() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scrollRev
}

// Attached reports whether the thread is still part of a live view.
func (t *Thread) Attached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.detached
}

// Detach marks the thread as no longer displayed.
func (t *Thread) Detach() {
	t.mu.Lock()
	t.detached = true
	t.mu.Unlock()
}

func (t *Thread) changed(c Change) {
	t.mu.Lock()
	observers := make([]func(Change), len(t.observers))
	copy(observers, t.observers)
	t.mu.Unlock()

	for _, fn := range observers {
		fn(c)
	}
	t.signal.Poke()
}
