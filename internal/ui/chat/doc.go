// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea chat view for the chatverse
// terminal client.
//
// The view is a thin shell over session.Session: every mutating action
// (send, edit, delete, create, switch) is dispatched as a tea.Cmd that
// calls the session and reports back with a result message. The session
// owns all conversation state; the view only renders session.DisplayEntries
// and relays errors to the status bar.
//
// Input follows a vim-like two-mode scheme. Insert mode types into the
// message box; normal mode navigates the transcript, selects turns for
// editing or deletion, opens the conversation list, and sends numbered
// suggestions.
package chat
