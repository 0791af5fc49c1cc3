// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/nova-tui/internal/chat"
	"github.com/jeranaias/nova-tui/internal/ui/styles"
)

func newPingCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE:  a.runPing,
	}
}

func (a *app) runPing(cmd *cobra.Command, _ []string) error {
	client := a.newClient()
	defer client.Close()

	payload, err := client.CheckConnectivity(cmd.Context())
	if err != nil {
		return fmt.Errorf("%s: %w", chat.ConnectivityWarning, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.RenderInfo("backend reachable at "+client.BaseURL()))
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("ping: encode payload: %w", err)
	}
	fmt.Fprintln(out, string(body))
	return nil
}
