// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared between the chatverse
// client core and the API layer.
package model

import (
	"testing"
)

// =============================================================================
// TURN TESTS
// =============================================================================

func TestNewProvisionalTurn(t *testing.T) {
	turn := NewProvisionalTurn("Hello")

	if turn.Confirmed() {
		t.Error("provisional turn should not be confirmed")
	}
	if turn.IsOpening() {
		t.Error("provisional turn carries a user message, not an opening")
	}
	if turn.UserText() != "Hello" {
		t.Errorf("UserText() = %q, want %q", turn.UserText(), "Hello")
	}
	if turn.AssistantResponse != "" {
		t.Errorf("AssistantResponse = %q, want empty", turn.AssistantResponse)
	}
}

func TestTurn_IsOpening(t *testing.T) {
	msg := "hi"
	tests := []struct {
		name string
		turn Turn
		want bool
	}{
		{name: "opening turn", turn: Turn{TurnID: "t1", AssistantResponse: "Hi!"}, want: true},
		{name: "regular turn", turn: Turn{TurnID: "t2", UserMessage: &msg, AssistantResponse: "Hello"}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.turn.IsOpening(); got != tc.want {
				t.Errorf("IsOpening() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTurn_Clone(t *testing.T) {
	msg := "original"
	turn := Turn{
		TurnID:            "t1",
		UserMessage:       &msg,
		AssistantResponse: "resp",
		Suggestions:       []string{"a", "b"},
	}

	clone := turn.Clone()

	// Mutating the clone must not leak into the source.
	*clone.UserMessage = "changed"
	clone.Suggestions[0] = "x"

	if *turn.UserMessage != "original" {
		t.Errorf("source UserMessage mutated to %q", *turn.UserMessage)
	}
	if turn.Suggestions[0] != "a" {
		t.Errorf("source Suggestions mutated to %q", turn.Suggestions[0])
	}
}

// =============================================================================
// DISPLAY ENTRY TESTS
// =============================================================================

func TestEntryRole_DisplayName(t *testing.T) {
	if RoleUser.DisplayName() != "You" {
		t.Errorf("RoleUser.DisplayName() = %q", RoleUser.DisplayName())
	}
	if RoleAssistant.DisplayName() != "Assistant" {
		t.Errorf("RoleAssistant.DisplayName() = %q", RoleAssistant.DisplayName())
	}
}

func TestDisplayEntry_Resolved(t *testing.T) {
	if (DisplayEntry{TurnID: ""}).Resolved() {
		t.Error("entry without turn ID should be unresolved")
	}
	if !(DisplayEntry{TurnID: "t1"}).Resolved() {
		t.Error("entry with turn ID should be resolved")
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_Meta(t *testing.T) {
	conv := Conversation{ID: "c1", Name: "Trip", Turns: []Turn{{TurnID: "t1"}}}
	meta := conv.Meta()

	if meta.ID != "c1" || meta.Name != "Trip" {
		t.Errorf("Meta() = %+v, want ID=c1 Name=Trip", meta)
	}
}
