// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the chatverse
// client core and the API layer.
package model

import (
	"time"
)

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn represents one user/assistant exchange in canonical server history.
type Turn struct {
	// TurnID is the server-assigned identifier, unique within a
	// conversation. Empty for a provisional turn that has not been
	// confirmed yet.
	TurnID string `json:"turn_id"`

	// UserMessage is the message the user sent. Nil for the synthetic
	// opening turn of a conversation.
	UserMessage *string `json:"user_message,omitempty"`

	// AssistantResponse is the assistant's reply text.
	AssistantResponse string `json:"assistant_response"`

	// Suggestions are follow-up prompts offered with this turn.
	Suggestions []string `json:"suggestions,omitempty"`

	// Timestamp is when the server recorded the turn.
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// NewProvisionalTurn creates the optimistic local turn shown while a send
// is in flight. It carries only the user's text: no ID, no response.
func NewProvisionalTurn(userMessage string) Turn {
	msg := userMessage
	return Turn{
		UserMessage: &msg,
		Timestamp:   time.Now(),
	}
}

// Confirmed reports whether the turn has been acknowledged by the server.
// Only confirmed turns can be edited or deleted.
func (t Turn) Confirmed() bool {
	return t.TurnID != ""
}

// IsOpening reports whether this is a conversation's synthetic opening
// turn (greeting with no user message).
func (t Turn) IsOpening() bool {
	return t.UserMessage == nil
}

// UserText returns the user message text, or "" for an opening turn.
func (t Turn) UserText() string {
	if t.UserMessage == nil {
		return ""
	}
	return *t.UserMessage
}

// Clone returns a deep copy of the turn.
func (t Turn) Clone() Turn {
	out := t
	if t.UserMessage != nil {
		msg := *t.UserMessage
		out.UserMessage = &msg
	}
	if t.Suggestions != nil {
		out.Suggestions = make([]string, len(t.Suggestions))
		copy(out.Suggestions, t.Suggestions)
	}
	return out
}

// =============================================================================
// DISPLAY ENTRY TYPE
// =============================================================================

// EntryRole identifies which side of the exchange a display entry renders.
type EntryRole string

const (
	RoleUser      EntryRole = "user"
	RoleAssistant EntryRole = "assistant"
)

// DisplayName returns a human-readable name for the role.
func (r EntryRole) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// DisplayEntry is the UI-facing projection of a turn: zero or one user
// line plus one assistant line, each tagged with the owning turn ID.
// Suggestions are populated only on the assistant entry of the final turn
// in a conversation.
type DisplayEntry struct {
	Role        EntryRole `json:"role"`
	Text        string    `json:"text"`
	TurnID      string    `json:"turn_id"`
	Suggestions []string  `json:"suggestions,omitempty"`
}

// Resolved reports whether the entry belongs to a server-confirmed turn.
// Unresolved entries get no edit/delete affordances in the UI.
func (e DisplayEntry) Resolved() bool {
	return e.TurnID != ""
}
