// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages.
//
// # Key Types
//
//   - Role: Message sender enumeration (user, assistant)
//   - Message: Immutable message with ID, role, content and creation time
//
// # Usage
//
//	msg := model.NewUserMessage("Hello!")
//	fmt.Println(msg.Role.DisplayName(), msg.Preview(40))
//
// The client keeps no separate message log. Messages exist only as rendered
// elements of the conversation view (see package view).
package model
