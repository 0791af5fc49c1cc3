// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nova-tui/internal/view"
)

// changeMsg reports that a view element changed outside the event loop.
type changeMsg struct{}

// submitDoneMsg is sent when a Submit call returns.
type submitDoneMsg struct {
	err error
}

// connectivityMsg carries the result of the startup connectivity check.
type connectivityMsg struct {
	payload map[string]any
	err     error
}

// waitForChange blocks until sig fires. It must be re-issued after every
// changeMsg.
func waitForChange(sig *view.Signal) tea.Cmd {
	return func() tea.Msg {
		<-sig.C()
		return changeMsg{}
	}
}
