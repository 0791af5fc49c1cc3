// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport is the HTTP client for the Nova chat backend.
//
// The backend exposes two endpoints:
//
//	POST <base>/chat   {"message": "..."} -> {"response": "..."} | {"error": "..."}
//	GET  <base>/test   -> arbitrary JSON, used as a liveness probe
//
// Every failure is reported as a *TransportError whose Error() string is
// suitable for showing to the user, or as ErrNoResponse when the backend
// answered successfully without a reply.
//
//	client := transport.New("http://127.0.0.1:5000", transport.WithTimeout(30*time.Second))
//	defer client.Close()
//	reply, err := client.SendMessage(ctx, "hello")
package transport
