// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the chatverse
// client core and the API layer: turns, conversations, and the display
// projection the UI renders.
//
// A Turn is one unit of canonical server history (an optional user message
// plus the assistant response and its follow-up suggestions). A turn with
// no user message is the synthetic opening turn of a conversation. A turn
// without a server-assigned ID is provisional: it has been shown
// optimistically but not yet confirmed by the service.
package model
