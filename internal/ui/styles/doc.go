// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the Nova TUI.
//
// Colors are lipgloss.AdaptiveColor values so the same palette works on light
// and dark terminals. Theme bundles the styles used by the chat screen, the
// inline markup formatter and the console front-end.
//
//	theme := styles.NewTheme()
//	fmt.Println(theme.Strong.Render("bold"))
package styles
