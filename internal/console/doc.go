// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package console is the line-mode front-end.
//
// It reads messages with liner when stdin is a terminal and with a plain
// scanner otherwise, then drives the same renderer and controller as the
// full-screen UI. Output is produced by observing the conversation thread.
//
// Input conventions:
//
//	line ending in \   continue on the next line
//	/new               start a new conversation
//	/help              list commands
//	/quit              exit
//	Ctrl+C             cancel the request in flight, or exit at the prompt
package console
