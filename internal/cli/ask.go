// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/nova-tui/internal/chat"
	"github.com/jeranaias/nova-tui/internal/format"
	"github.com/jeranaias/nova-tui/internal/transport"
)

func newAskCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask TEXT...",
		Short: "Send one message and print the reply",
		Long: `Sends a single message to the backend and prints the formatted reply.

Examples:
  nova ask "What is the capital of France?"
  nova ask --url http://127.0.0.1:5000 hello`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runAsk,
	}
}

func (a *app) runAsk(cmd *cobra.Command, args []string) error {
	text := chat.Normalize(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("ask: nothing to send")
	}

	f, err := format.New(a.cfg.UI.Formatter, a.theme(), outputWidth(a.stdout))
	if err != nil {
		return err
	}

	client := a.newClient()
	defer client.Close()

	reply, err := client.SendMessage(cmd.Context(), text)
	if err == nil && reply == "" {
		err = transport.ErrNoResponse
	}
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), f.Format(reply))
	return nil
}
