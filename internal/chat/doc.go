// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the message submission and rendering pipeline.
//
// A Renderer appends formatted messages and the typing placeholder to a
// view.Conversation. A Controller runs one submission cycle at a time:
// validate the input, render the user's message, call the backend, render
// the reply or raise an error notice, and always hand the input back to the
// user afterwards.
//
//	r := chat.NewRenderer(thread, formatter)
//	c := chat.NewController(viewCtx, r, client)
//	r.ClearConversation()
//	err := c.Submit(ctx, "hello")
package chat
