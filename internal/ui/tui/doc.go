// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tui is the full-screen Bubble Tea front-end.
//
// The model owns a view.Thread, a view.Field, a view.Button and a toast
// manager, all sharing one change signal. The submission controller mutates
// those elements from a tea.Cmd goroutine; the model drains the signal and
// redraws.
//
// Layout, top to bottom:
//
//	header
//	conversation viewport
//	toasts (when any)
//	input box + Send button
//	status bar
//
// Usage:
//
//	err := tui.Run(ctx, tui.Options{Sender: client, Pinger: client})
package tui
