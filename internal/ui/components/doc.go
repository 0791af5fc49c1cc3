// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the Nova TUI.

# Components

ToastManager (toast.go) - Non-blocking notices that appear in the corner and
auto-dismiss. It satisfies view.Notifier, so the chat controller can raise
error notices without knowing about Bubble Tea.

Bubble (bubble.go) - Renders a conversation element as a styled message
bubble with the role's avatar, or as the typing placeholder.
*/
package components
