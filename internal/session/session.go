// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session binds one conversation to its turn store and reconciles
// local state against the conversation service.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/Abirami-Senthil/chatverse/internal/api"
	"github.com/Abirami-Senthil/chatverse/internal/model"
	"github.com/Abirami-Senthil/chatverse/internal/timeline"
)

// =============================================================================
// SESSION STATE
// =============================================================================

// State is the activation state of the session.
type State int

const (
	// StateUnbound means no conversation is selected; only Create,
	// Select, and List are legal.
	StateUnbound State = iota

	// StateIdle is normal operation on a bound conversation.
	StateIdle

	// StateEditing means a pending edit is open; only SaveEdit and
	// CancelEdit are legal.
	StateEditing
)

// String returns the state name for logging and status display.
func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// =============================================================================
// SESSION
// =============================================================================

// Session owns the activation state of exactly one conversation, gates
// which operations are currently legal, and tracks the pending edit. The
// service client is handed in at construction and threaded through every
// call; there is no ambient global client.
type Session struct {
	mu sync.Mutex

	svc   api.Service
	store *timeline.Store

	state            State
	conversationID   string
	conversationName string
	pending          *model.PendingEdit

	// inFlight is true while a mutating remote call is suspended.
	inFlight bool

	// generation counts rebinds. A completion whose generation no longer
	// matches arrived for a conversation that has since been switched
	// away from; it is discarded, not an error.
	generation uint64
}

// New creates an unbound session backed by the given service.
func New(svc api.Service) *Session {
	return &Session{
		svc:   svc,
		store: timeline.NewStore(),
		state: StateUnbound,
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current activation state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ConversationID returns the bound conversation's ID, or "" when unbound.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// ConversationName returns the bound conversation's display name.
func (s *Session) ConversationName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationName
}

// DisplayEntries returns the current display projection. Read-only and
// side-effect-free; safe to call at any time, including while a remote
// call is suspended.
func (s *Session) DisplayEntries() []model.DisplayEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DisplayEntries()
}

// Turns returns a copy of the bound conversation's turn sequence.
func (s *Session) Turns() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Turns()
}

// PendingEdit returns the open edit, if any.
func (s *Session) PendingEdit() (model.PendingEdit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return model.PendingEdit{}, false
	}
	return *s.pending, true
}

// Busy reports whether a mutating remote call is currently in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// =============================================================================
// CONVERSATION LIFECYCLE
// =============================================================================

// Create allocates a new conversation server-side, binds it, and loads
// its opening turn.
func (s *Session) Create(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Message: "conversation name cannot be empty"}
	}

	s.mu.Lock()
	if s.state == StateEditing {
		s.mu.Unlock()
		return &BusyError{Reason: "an edit is in progress"}
	}
	if s.inFlight {
		s.mu.Unlock()
		return &BusyError{Reason: "another operation is in flight"}
	}
	s.inFlight = true
	gen := s.generation
	s.mu.Unlock()

	conv, err := s.svc.CreateConversation(ctx, name)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		// Switched away while the call was outstanding.
		return nil
	}
	s.inFlight = false
	if err != nil {
		return err
	}

	s.bindLocked(conv)
	return nil
}

// Select switches to a different conversation. Any pending edit is
// discarded and the full turn sequence is reloaded from the service; the
// client keeps no cross-conversation cache. A mutating call still
// outstanding for the previously bound conversation is abandoned: its
// completion becomes a no-op.
func (s *Session) Select(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	s.pending = nil
	if s.state == StateEditing {
		s.state = StateIdle
	}
	// Rebinding invalidates whatever was in flight for the previous
	// conversation.
	s.generation++
	s.inFlight = true
	gen := s.generation
	s.mu.Unlock()

	conv, err := s.svc.LoadConversation(ctx, conversationID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil
	}
	s.inFlight = false
	if err != nil {
		return err
	}

	s.bindLocked(conv)
	return nil
}

// List returns the conversations available to the user. Read-only; no
// serialization constraint.
func (s *Session) List(ctx context.Context) ([]model.ConversationMeta, error) {
	return s.svc.ListConversations(ctx)
}

// bindLocked installs a conversation as the bound one. Caller holds mu.
func (s *Session) bindLocked(conv model.Conversation) {
	s.conversationID = conv.ID
	s.conversationName = conv.Name
	s.store.Load(conv.Turns)
	s.state = StateIdle
	s.pending = nil
	s.generation++
}

// =============================================================================
// SEND
// =============================================================================

// Send appends the user's message optimistically, issues the remote send,
// and confirms the provisional turn with the server's result. On a remote
// failure the provisional turn is left in place without a turn ID so the
// UI can offer retry or discard; nothing is retried automatically.
func (s *Session) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Message: "message cannot be empty"}
	}

	s.mu.Lock()
	if s.state == StateUnbound {
		s.mu.Unlock()
		return &UnboundError{}
	}
	if s.state == StateEditing {
		s.mu.Unlock()
		return &BusyError{Reason: "an edit is in progress"}
	}
	if s.inFlight {
		s.mu.Unlock()
		return &BusyError{Reason: "another operation is in flight"}
	}

	s.store.Append(model.NewProvisionalTurn(text))
	s.inFlight = true
	gen := s.generation
	convID := s.conversationID
	s.mu.Unlock()

	turn, err := s.svc.SendMessage(ctx, convID, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil
	}
	s.inFlight = false
	if err != nil {
		// The provisional turn stays, unresolved.
		return err
	}

	s.store.ConfirmLast(turn)
	return nil
}

// DiscardUnsent drops the trailing provisional turn left behind by a
// failed send. No-op if the last turn is confirmed.
func (s *Session) DiscardUnsent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, ok := s.store.Last(); ok && !last.Confirmed() {
		s.store.DropLast()
	}
}

// =============================================================================
// EDIT
// =============================================================================

// BeginEdit opens the pending edit slot for a confirmed turn, prefilled
// with its current user message.
func (s *Session) BeginEdit(turnID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateUnbound {
		return &UnboundError{}
	}
	if s.state == StateEditing {
		return &BusyError{Reason: "an edit is already in progress"}
	}
	if s.inFlight {
		return &BusyError{Reason: "another operation is in flight"}
	}

	turn, ok := s.store.Turn(turnID)
	if !ok {
		return &StaleReferenceError{TurnID: turnID}
	}
	if turn.IsOpening() {
		return &ValidationError{Message: "the opening turn has no user message to edit"}
	}

	s.pending = &model.PendingEdit{TurnID: turnID, Draft: turn.UserText()}
	s.state = StateEditing
	return nil
}

// UpdateDraft replaces the pending edit's draft text.
func (s *Session) UpdateDraft(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEditing || s.pending == nil {
		return &ValidationError{Message: "no edit is in progress"}
	}
	s.pending.Draft = text
	return nil
}

// SaveEdit submits the pending edit. The service rewrites the turn,
// discards everything after it, and returns the complete remaining
// sequence, which replaces the local one wholesale. On a remote failure
// the local sequence is untouched and the edit state is reset.
func (s *Session) SaveEdit(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateEditing || s.pending == nil {
		s.mu.Unlock()
		return &ValidationError{Message: "no edit is in progress"}
	}
	if s.inFlight {
		s.mu.Unlock()
		return &BusyError{Reason: "another operation is in flight"}
	}

	draft := strings.TrimSpace(s.pending.Draft)
	if draft == "" {
		s.mu.Unlock()
		return &ValidationError{Message: "edited message cannot be empty"}
	}

	turnID := s.pending.TurnID
	if !s.store.Contains(turnID) {
		s.pending = nil
		s.state = StateIdle
		s.mu.Unlock()
		return &StaleReferenceError{TurnID: turnID}
	}

	s.inFlight = true
	gen := s.generation
	convID := s.conversationID
	s.mu.Unlock()

	remaining, err := s.svc.EditMessage(ctx, convID, turnID, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil
	}
	s.inFlight = false
	s.pending = nil
	s.state = StateIdle
	if err != nil {
		// Pre-edit sequence stays exactly as it was.
		return err
	}

	s.store.ReplaceFrom(remaining)
	return nil
}

// CancelEdit closes the pending edit without touching the conversation.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEditing {
		s.pending = nil
		s.state = StateIdle
	}
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes a confirmed turn. The service discards the turn and
// everything causally after it and returns the complete remaining
// sequence, which replaces the local one wholesale.
func (s *Session) Delete(ctx context.Context, turnID string) error {
	s.mu.Lock()
	if s.state == StateUnbound {
		s.mu.Unlock()
		return &UnboundError{}
	}
	if s.state == StateEditing {
		s.mu.Unlock()
		return &BusyError{Reason: "an edit is in progress"}
	}
	if s.inFlight {
		s.mu.Unlock()
		return &BusyError{Reason: "another operation is in flight"}
	}
	if !s.store.Contains(turnID) {
		s.mu.Unlock()
		return &StaleReferenceError{TurnID: turnID}
	}

	s.inFlight = true
	gen := s.generation
	convID := s.conversationID
	s.mu.Unlock()

	remaining, err := s.svc.DeleteMessage(ctx, convID, turnID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return nil
	}
	s.inFlight = false
	if err != nil {
		// Pre-delete sequence stays exactly as it was.
		return err
	}

	s.store.ReplaceFrom(remaining)
	return nil
}
