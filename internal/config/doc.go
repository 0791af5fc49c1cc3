// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for nova.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the cli package)
//   - Environment variables (NOVA_*, GOOGLE_API_KEY)
//   - ~/.nova/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := transport.New(cfg.Client.BaseURL, transport.WithTimeout(cfg.Client.Timeout()))
//
// # Example config.toml
//
//	[client]
//	base_url = "http://127.0.0.1:5000"
//	timeout_secs = 60
//
//	[ui]
//	formatter = "markdown"
//	max_input_lines = 6
//
//	[backend]
//	responder = "gemini"
package config
