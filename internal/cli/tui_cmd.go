// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui_cmd.go - starts the chat TUI over an authenticated client.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Abirami-Senthil/chatverse/internal/session"
	"github.com/Abirami-Senthil/chatverse/internal/ui/chat"
)

// HandleTUI runs the interactive chat interface.
func HandleTUI(args Args) error {
	if !IsInteractive() {
		return &UsageError{Message: "the TUI needs an interactive terminal; see 'chatverse help' for non-interactive commands"}
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	client, err := authedClient(cfg)
	if err != nil {
		return err
	}

	sess := session.New(client)
	program := tea.NewProgram(chat.New(sess, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
