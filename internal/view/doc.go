// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package view defines the surface the chat pipeline draws on.

A Context bundles the four things a submission touches: the Conversation the
messages are appended to, the Input the user types into, the Submit control,
and the Notifier that shows transient notices. The chat package only talks to
these interfaces, so the same pipeline drives the Bubble Tea screen, the
line-mode console and the tests.

The concrete elements in this package (Thread, Field, Button) are
safe for concurrent use. Every mutation pokes a shared Signal, which the
front-end drains to know when to redraw:

	sig := view.NewSignal()
	ctx := view.Context{
		Conversation: view.NewThread(sig),
		Input:        view.NewField(sig),
		Submit:       view.NewButton(sig),
		Notifier:     view.NotifierFunc(show),
	}
	<-sig.C() // something changed
*/
package view
