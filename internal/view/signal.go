// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package view

// Signal is a coalescing change notification. Any number of pokes between two
// receives collapse into a single pending wake-up.
type Signal struct {
	ch chan struct{}
}

// NewSignal creates a Signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Poke records a change. It never blocks and is safe on a nil Signal.
func (s *Signal) Poke() {
	if s == nil {
		return
	}
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// C returns the channel that receives one value per batch of changes.
func (s *Signal) C() <-chan struct{} {
	return s.ch
}
