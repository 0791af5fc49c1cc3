// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires configuration, logging and the front-ends into the nova
// command tree.
//
// Commands:
//
//	nova               full-screen chat (line mode when not on a terminal)
//	nova --plain       line-mode chat
//	nova ask TEXT      send one message and print the reply
//	nova ping          check that the backend is reachable
//	nova serve         run the development backend
//	nova version       print version information
//
// Global flags:
//
//	--config PATH      config file (default ~/.nova/config.toml)
//	--url URL          backend base URL
//	--timeout DUR      per-request timeout
//	-v, --verbose      debug logging
package cli
