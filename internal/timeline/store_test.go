// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timeline holds the in-memory turn sequence for the currently
// active conversation and derives the display projection.
package timeline

import (
	"reflect"
	"testing"

	"github.com/Abirami-Senthil/chatverse/internal/model"
)

// confirmed builds a server-confirmed turn for tests.
func confirmed(id, user, response string, suggestions ...string) model.Turn {
	t := model.Turn{TurnID: id, AssistantResponse: response, Suggestions: suggestions}
	if user != "" {
		msg := user
		t.UserMessage = &msg
	}
	return t
}

// =============================================================================
// MUTATION TESTS
// =============================================================================

func TestStore_LoadReplacesSequence(t *testing.T) {
	s := NewStore()
	s.Load([]model.Turn{confirmed("t1", "", "Hi!")})
	s.Load([]model.Turn{confirmed("t9", "", "Other"), confirmed("t10", "q", "a")})

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.Contains("t1") {
		t.Error("turn from previous load should be gone")
	}
}

func TestStore_ConfirmLastOverwrites(t *testing.T) {
	s := NewStore()
	s.Load([]model.Turn{confirmed("t1", "", "Hi!")})
	s.Append(model.NewProvisionalTurn("Hello"))

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	s.ConfirmLast(confirmed("t2", "Hello", "Hi there", "A", "B"))

	if s.Len() != 2 {
		t.Errorf("ConfirmLast must overwrite, not append; Len() = %d", s.Len())
	}
	last, ok := s.Last()
	if !ok || last.TurnID != "t2" {
		t.Errorf("Last() = %+v, want turn t2", last)
	}
}

func TestStore_ConfirmLastOnEmptyAppends(t *testing.T) {
	s := NewStore()
	s.ConfirmLast(confirmed("t1", "", "Hi!"))

	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_ReplaceFromIsTotal(t *testing.T) {
	// After an edit/delete the store contains exactly the server-returned
	// sequence, no matter how much existed locally before.
	s := NewStore()
	s.Load([]model.Turn{
		confirmed("t1", "", "Hi!"),
		confirmed("t2", "a", "ra"),
		confirmed("t3", "b", "rb"),
		confirmed("t4", "c", "rc"),
	})

	s.ReplaceFrom([]model.Turn{confirmed("t1", "", "Hi!")})

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	for _, id := range []string{"t2", "t3", "t4"} {
		if s.Contains(id) {
			t.Errorf("turn %s survived ReplaceFrom", id)
		}
	}
}

func TestStore_DropLast(t *testing.T) {
	s := NewStore()
	s.Append(model.NewProvisionalTurn("unsent"))
	s.DropLast()

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}

	// DropLast on empty store is a no-op.
	s.DropLast()
}

func TestStore_ContainsIgnoresProvisional(t *testing.T) {
	s := NewStore()
	s.Append(model.NewProvisionalTurn("Hello"))

	if s.Contains("") {
		t.Error("empty turn ID must never match")
	}
}

// =============================================================================
// DISPLAY PROJECTION TESTS
// =============================================================================

func TestStore_DisplayEntries_OpeningTurn(t *testing.T) {
	s := NewStore()
	s.Load([]model.Turn{confirmed("t1", "", "Hi!")})

	entries := s.DisplayEntries()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Role != model.RoleAssistant || e.Text != "Hi!" || e.TurnID != "t1" {
		t.Errorf("entry = %+v", e)
	}
	if len(e.Suggestions) != 0 {
		t.Errorf("opening turn with no suggestions produced %v", e.Suggestions)
	}
}

func TestStore_DisplayEntries_ProvisionalSend(t *testing.T) {
	s := NewStore()
	s.Load([]model.Turn{confirmed("t1", "", "Hi!")})
	s.Append(model.NewProvisionalTurn("Hello"))

	entries := s.DisplayEntries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	e := entries[1]
	if e.Role != model.RoleUser || e.Text != "Hello" || e.TurnID != "" {
		t.Errorf("optimistic entry = %+v", e)
	}
	if e.Resolved() {
		t.Error("optimistic entry must be unresolved")
	}

	// Confirmation replaces the user line with the full exchange.
	s.ConfirmLast(confirmed("t2", "Hello", "Hi there", "A", "B"))

	entries = s.DisplayEntries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries after confirm, want 3", len(entries))
	}
	if entries[1].TurnID != "t2" || entries[1].Role != model.RoleUser {
		t.Errorf("user entry = %+v", entries[1])
	}
	last := entries[2]
	if last.Role != model.RoleAssistant || last.Text != "Hi there" {
		t.Errorf("assistant entry = %+v", last)
	}
	if !reflect.DeepEqual(last.Suggestions, []string{"A", "B"}) {
		t.Errorf("suggestions = %v, want [A B]", last.Suggestions)
	}
}

func TestStore_DisplayEntries_SuggestionLocality(t *testing.T) {
	// Only the assistant entry of the final turn may carry suggestions.
	s := NewStore()
	s.Load([]model.Turn{
		confirmed("t1", "", "Hi!", "old1", "old2"),
		confirmed("t2", "a", "ra", "mid"),
		confirmed("t3", "b", "rb", "new1"),
	})

	entries := s.DisplayEntries()
	for i, e := range entries[:len(entries)-1] {
		if len(e.Suggestions) != 0 {
			t.Errorf("entry %d carries stale suggestions %v", i, e.Suggestions)
		}
	}
	last := entries[len(entries)-1]
	if !reflect.DeepEqual(last.Suggestions, []string{"new1"}) {
		t.Errorf("final suggestions = %v, want [new1]", last.Suggestions)
	}
}

func TestStore_DisplayEntries_Idempotent(t *testing.T) {
	s := NewStore()
	s.Load([]model.Turn{
		confirmed("t1", "", "Hi!"),
		confirmed("t2", "q", "a", "s1", "s2"),
	})
	s.Append(model.NewProvisionalTurn("pending"))

	first := s.DisplayEntries()
	second := s.DisplayEntries()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("projection not idempotent:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestStore_DisplayEntries_NoAliasing(t *testing.T) {
	s := NewStore()
	s.Load([]model.Turn{confirmed("t1", "", "Hi!", "a")})

	entries := s.DisplayEntries()
	entries[0].Suggestions[0] = "mutated"

	again := s.DisplayEntries()
	if again[0].Suggestions[0] != "a" {
		t.Error("caller mutation leaked into the store")
	}
}
