// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea chat view for the chatverse
// terminal client.
package chat

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Abirami-Senthil/chatverse/internal/api"
	"github.com/Abirami-Senthil/chatverse/internal/config"
	"github.com/Abirami-Senthil/chatverse/internal/model"
	"github.com/Abirami-Senthil/chatverse/internal/session"
)

// =============================================================================
// FAKE SERVICE
// =============================================================================

// stubService is a minimal api.Service returning canned data.
type stubService struct {
	turns []model.Turn
}

func str(s string) *string { return &s }

func (f *stubService) CreateConversation(_ context.Context, name string) (model.Conversation, error) {
	return model.Conversation{ID: "c1", Name: name, Turns: f.turns}, nil
}

func (f *stubService) ListConversations(_ context.Context) ([]model.ConversationMeta, error) {
	return []model.ConversationMeta{{ID: "c1", Name: "first"}}, nil
}

func (f *stubService) LoadConversation(_ context.Context, id string) (model.Conversation, error) {
	return model.Conversation{ID: id, Name: "first", Turns: f.turns}, nil
}

func (f *stubService) SendMessage(_ context.Context, _, text string) (model.Turn, error) {
	return model.Turn{TurnID: "t-new", UserMessage: str(text), AssistantResponse: "ok"}, nil
}

func (f *stubService) EditMessage(_ context.Context, _, _, _ string) ([]model.Turn, error) {
	return f.turns, nil
}

func (f *stubService) DeleteMessage(_ context.Context, _, _ string) ([]model.Turn, error) {
	return f.turns[:1], nil
}

// =============================================================================
// HELPERS
// =============================================================================

func boundModel(t *testing.T) *Model {
	t.Helper()
	svc := &stubService{
		turns: []model.Turn{
			{TurnID: "t0", AssistantResponse: "Welcome!", Suggestions: []string{"Tell me more"}},
			{TurnID: "t1", UserMessage: str("hello"), AssistantResponse: "hi there"},
			{TurnID: "t2", UserMessage: str("how?"), AssistantResponse: "like this"},
		},
	}
	sess := session.New(svc)
	if err := sess.Select(context.Background(), "c1"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	cfg := config.Default()
	cfg.UI.Markdown = false
	m := New(sess, cfg)
	m.handleResize(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// =============================================================================
// MODE AND SELECTION TESTS
// =============================================================================

func TestStartsInListWhenUnbound(t *testing.T) {
	sess := session.New(&stubService{})
	m := New(sess, config.Default())
	if m.mode != ModeList {
		t.Fatalf("mode = %d, want ModeList", m.mode)
	}
}

func TestStartsInChatWhenBound(t *testing.T) {
	m := boundModel(t)
	if m.mode != ModeChat {
		t.Fatalf("mode = %d, want ModeChat", m.mode)
	}
	if m.inputMode != InputInsert {
		t.Fatalf("inputMode = %d, want InputInsert", m.inputMode)
	}
}

func TestEscTogglesInputMode(t *testing.T) {
	m := boundModel(t)

	m.handleKey(key("esc"))
	if m.inputMode != InputNormal {
		t.Fatal("esc should leave insert mode")
	}

	m.handleKey(key("i"))
	if m.inputMode != InputInsert {
		t.Fatal("i should re-enter insert mode")
	}
}

func TestSelectableTurnsSkipOpening(t *testing.T) {
	m := boundModel(t)
	ids := m.selectableTurns()
	if len(ids) != 2 {
		t.Fatalf("selectable = %v, want 2 entries", ids)
	}
	if ids[0] != "t1" || ids[1] != "t2" {
		t.Fatalf("selectable = %v, want [t1 t2]", ids)
	}
}

func TestSelectionMovesAndClamps(t *testing.T) {
	m := boundModel(t)
	m.handleKey(key("esc"))

	m.handleKey(key("K"))
	if got := m.selectedTurnID(); got != "t2" {
		t.Fatalf("first K selects %q, want t2", got)
	}
	m.handleKey(key("K"))
	if got := m.selectedTurnID(); got != "t1" {
		t.Fatalf("second K selects %q, want t1", got)
	}
	m.handleKey(key("K"))
	if got := m.selectedTurnID(); got != "t1" {
		t.Fatalf("K at top selects %q, want t1", got)
	}
	m.handleKey(key("J"))
	m.handleKey(key("J"))
	if got := m.selectedTurnID(); got != "t2" {
		t.Fatalf("J at bottom selects %q, want t2", got)
	}
}

func TestTargetDefaultsToLastUserTurn(t *testing.T) {
	m := boundModel(t)
	if got := m.targetTurnID(); got != "t2" {
		t.Fatalf("target = %q, want t2", got)
	}
}

func TestBeginEditOpensPromptWithDraft(t *testing.T) {
	m := boundModel(t)
	m.handleKey(key("esc"))
	m.handleKey(key("e"))

	if m.mode != ModeEdit {
		t.Fatalf("mode = %d, want ModeEdit", m.mode)
	}
	if got := m.promptInput.Value(); got != "how?" {
		t.Fatalf("draft = %q, want original message", got)
	}
	if m.session.State() != session.StateEditing {
		t.Fatal("session should be editing")
	}
}

func TestEscCancelsEdit(t *testing.T) {
	m := boundModel(t)
	m.handleKey(key("esc"))
	m.handleKey(key("e"))
	m.handleKey(key("esc"))

	if m.mode != ModeChat {
		t.Fatal("esc should return to chat")
	}
	if m.session.State() != session.StateIdle {
		t.Fatal("session edit should be cancelled")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m := boundModel(t)
	m.handleKey(key("esc"))
	m.handleKey(key("d"))

	if m.mode != ModeConfirmDelete {
		t.Fatalf("mode = %d, want ModeConfirmDelete", m.mode)
	}
	if m.deleteTarget != "t2" {
		t.Fatalf("deleteTarget = %q, want t2", m.deleteTarget)
	}

	m.handleKey(key("n"))
	if m.mode != ModeChat || m.deleteTarget != "" {
		t.Fatal("n should cancel the delete")
	}
}

func TestNewChatPromptFromNormalMode(t *testing.T) {
	m := boundModel(t)
	m.handleKey(key("esc"))
	m.handleKey(key("n"))
	if m.mode != ModeNewChat {
		t.Fatalf("mode = %d, want ModeNewChat", m.mode)
	}

	m.handleKey(key("esc"))
	if m.mode != ModeChat {
		t.Fatal("esc should return to chat when bound")
	}
}

// =============================================================================
// RESULT MESSAGE TESTS
// =============================================================================

func TestSendFailureShowsStatus(t *testing.T) {
	m := boundModel(t)
	m.waiting = true

	m.Update(SendResultMsg{Err: &api.RemoteError{Status: 500, Message: "boom"}})

	if m.waiting {
		t.Fatal("waiting should clear on result")
	}
	if !m.statusErr || !strings.Contains(m.status, "boom") {
		t.Fatalf("status = %q, want the server message", m.status)
	}
}

func TestConversationListResultClampsCursor(t *testing.T) {
	m := boundModel(t)
	m.listCursor = 5

	m.Update(ConversationListMsg{Conversations: []model.ConversationMeta{{ID: "c1", Name: "only"}}})

	if m.listCursor != 0 {
		t.Fatalf("listCursor = %d, want 0", m.listCursor)
	}
}

func TestSelectedResultEntersChat(t *testing.T) {
	m := boundModel(t)
	m.mode = ModeList
	m.waiting = true

	m.Update(ConversationSelectedMsg{})

	if m.mode != ModeChat || m.inputMode != InputInsert {
		t.Fatal("successful select should enter insert-mode chat")
	}
}

// =============================================================================
// RENDERING TESTS
// =============================================================================

func TestTranscriptShowsRolesAndText(t *testing.T) {
	m := boundModel(t)
	out := m.renderTranscript()

	for _, want := range []string{"Welcome!", "hello", "hi there", "You", "Assistant"} {
		if !strings.Contains(out, want) {
			t.Errorf("transcript missing %q", want)
		}
	}
}

func TestSuggestionsRenderNumbered(t *testing.T) {
	svc := &stubService{turns: []model.Turn{
		{TurnID: "t0", AssistantResponse: "Welcome!", Suggestions: []string{"Tell me more"}},
	}}
	sess := session.New(svc)
	if err := sess.Select(context.Background(), "c1"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	cfg := config.Default()
	cfg.UI.Markdown = false
	m := New(sess, cfg)
	m.handleResize(tea.WindowSizeMsg{Width: 100, Height: 30})

	out := m.renderSuggestions()
	if !strings.Contains(out, "[1]") || !strings.Contains(out, "Tell me more") {
		t.Fatalf("suggestions = %q, want numbered entry", out)
	}
}

func TestSuggestionsOnlyOnFinalTurn(t *testing.T) {
	m := boundModel(t)
	// The stub attaches suggestions to the opening turn only; after later
	// turns exist the final entry carries none.
	if out := m.renderSuggestions(); out != "" {
		t.Fatalf("suggestions = %q, want none when the final turn has none", out)
	}
}

func TestProvisionalEntryMarkedPending(t *testing.T) {
	m := boundModel(t)
	entry := model.DisplayEntry{Role: model.RoleUser, Text: "unsent"}
	out := m.renderEntry(entry, false)
	if !strings.Contains(out, "sending") {
		t.Fatalf("rendered = %q, want pending marker", out)
	}
}

// =============================================================================
// ERROR PRESENTATION TESTS
// =============================================================================

func TestFriendlyErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unauthorized", &api.RemoteError{Status: 401, Message: "nope"}, "Authentication failed: log in again"},
		{"remote", &api.RemoteError{Status: 500, Message: "boom"}, "Server error: boom"},
		{"stale", &session.StaleReferenceError{TurnID: "t9"}, "That message no longer exists"},
		{"unbound", &session.UnboundError{}, "No conversation selected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := friendlyError(tt.err); got != tt.want {
				t.Errorf("friendlyError() = %q, want %q", got, tt.want)
			}
		})
	}
}
