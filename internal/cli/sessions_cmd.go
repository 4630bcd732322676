// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions_cmd.go - lists the logged-in user's conversations without
// starting the TUI.
package cli

import (
	"context"
	"fmt"
)

// HandleSessions prints the user's conversations.
func HandleSessions(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	client, err := authedClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout())
	defer cancel()

	metas, err := client.ListConversations(ctx)
	if err != nil {
		return err
	}

	if len(metas) == 0 {
		fmt.Println("No conversations yet. Start one in the TUI with 'chatverse'.")
		return nil
	}

	for _, m := range metas {
		if args.Quiet {
			fmt.Println(m.ID)
		} else {
			fmt.Printf("%-38s %s\n", m.ID, m.Name)
		}
	}
	return nil
}
