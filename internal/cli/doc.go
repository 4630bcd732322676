// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses chatverse's command line and implements the
// non-interactive commands.
//
// The default command starts the TUI; "serve" runs the conversation
// service. Auth commands obtain a bearer token and persist it under
// ~/.chatverse so the TUI can pick it up. Parsing is hand-rolled: the
// surface is small and flag packages fight the "bare invocation starts
// the TUI" default.
package cli
