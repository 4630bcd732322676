// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the chatverse
// client core and the API layer.
package model

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is a named, ordered sequence of turns identified by a
// stable server-assigned ID. Turn order is the authoritative chronological
// order; the client never reorders.
type Conversation struct {
	ID    string `json:"conversation_id"`
	Name  string `json:"name"`
	Turns []Turn `json:"turns"`
}

// Meta returns the lightweight listing form of the conversation.
func (c Conversation) Meta() ConversationMeta {
	return ConversationMeta{ID: c.ID, Name: c.Name}
}

// ConversationMeta holds what the list endpoint returns per conversation.
type ConversationMeta struct {
	ID   string `json:"conversation_id"`
	Name string `json:"name"`
}

// =============================================================================
// PENDING EDIT TYPE
// =============================================================================

// PendingEdit captures an in-progress edit of a previously sent message.
// At most one exists per session; while it is open, only saving or
// cancelling the edit is legal.
type PendingEdit struct {
	TurnID string
	Draft  string
}
