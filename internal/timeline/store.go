// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timeline holds the in-memory turn sequence for the currently
// active conversation and derives the display projection.
package timeline

import (
	"github.com/Abirami-Senthil/chatverse/internal/model"
)

// =============================================================================
// TURN STORE
// =============================================================================

// Store holds one conversation's ordered turn sequence. It is exclusively
// owned by the session bound to it; the session is the sole writer.
type Store struct {
	turns []model.Turn
}

// NewStore creates an empty turn store.
func NewStore() *Store {
	return &Store{turns: make([]model.Turn, 0)}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Load replaces the entire sequence. Used after conversation selection or
// a full reload; the caller supplies a server-canonical sequence.
func (s *Store) Load(turns []model.Turn) {
	s.turns = cloneTurns(turns)
}

// Append adds a turn to the end of the sequence. Used both for the
// optimistic provisional turn and for confirmed turns.
func (s *Store) Append(turn model.Turn) {
	s.turns = append(s.turns, turn.Clone())
}

// ConfirmLast overwrites the final turn in place. This is the second
// phase of an optimistic send: the provisional turn appended before the
// remote call is replaced by the server-confirmed one. Appends instead if
// the store is empty.
func (s *Store) ConfirmLast(turn model.Turn) {
	if len(s.turns) == 0 {
		s.Append(turn)
		return
	}
	s.turns[len(s.turns)-1] = turn.Clone()
}

// ReplaceFrom replaces the whole sequence with the server's recomputed
// remaining sequence after an edit or delete. The server is the sole
// authority on which downstream turns survive; anything it did not return
// is gone, regardless of what existed locally.
func (s *Store) ReplaceFrom(turns []model.Turn) {
	s.turns = cloneTurns(turns)
}

// DropLast removes the final turn, if any. Used to discard a provisional
// turn the user abandons after a failed send.
func (s *Store) DropLast() {
	if len(s.turns) > 0 {
		s.turns = s.turns[:len(s.turns)-1]
	}
}

// Clear empties the store.
func (s *Store) Clear() {
	s.turns = s.turns[:0]
}

// =============================================================================
// QUERIES
// =============================================================================

// Len returns the number of turns.
func (s *Store) Len() int {
	return len(s.turns)
}

// Contains reports whether a confirmed turn with the given ID is present.
// An empty ID never matches: provisional turns are not addressable.
func (s *Store) Contains(turnID string) bool {
	if turnID == "" {
		return false
	}
	for _, t := range s.turns {
		if t.TurnID == turnID {
			return true
		}
	}
	return false
}

// Turn returns the turn with the given ID.
func (s *Store) Turn(turnID string) (model.Turn, bool) {
	if turnID == "" {
		return model.Turn{}, false
	}
	for _, t := range s.turns {
		if t.TurnID == turnID {
			return t.Clone(), true
		}
	}
	return model.Turn{}, false
}

// Last returns the final turn, if any.
func (s *Store) Last() (model.Turn, bool) {
	if len(s.turns) == 0 {
		return model.Turn{}, false
	}
	return s.turns[len(s.turns)-1].Clone(), true
}

// Turns returns a copy of the stored sequence.
func (s *Store) Turns() []model.Turn {
	return cloneTurns(s.turns)
}

// =============================================================================
// DISPLAY PROJECTION
// =============================================================================

// DisplayEntries flattens the turn sequence into the UI-facing entries:
// per turn, zero or one user entry plus exactly one assistant entry.
// Suggestions are attached only to the assistant entry of the final turn;
// every earlier entry carries an empty set, so stale follow-up prompts
// never reappear after new turns are added.
//
// The projection is deterministic: two calls without an intervening
// mutation yield value-identical results.
func (s *Store) DisplayEntries() []model.DisplayEntry {
	entries := make([]model.DisplayEntry, 0, len(s.turns)*2)

	for i, t := range s.turns {
		if t.UserMessage != nil {
			entries = append(entries, model.DisplayEntry{
				Role:   model.RoleUser,
				Text:   *t.UserMessage,
				TurnID: t.TurnID,
			})
		}

		if !t.Confirmed() && t.AssistantResponse == "" {
			// Provisional turn: the user line is visible but there is
			// no assistant entry to show yet.
			continue
		}

		entry := model.DisplayEntry{
			Role:   model.RoleAssistant,
			Text:   t.AssistantResponse,
			TurnID: t.TurnID,
		}
		if i == len(s.turns)-1 && len(t.Suggestions) > 0 {
			entry.Suggestions = make([]string, len(t.Suggestions))
			copy(entry.Suggestions, t.Suggestions)
		}
		entries = append(entries, entry)
	}

	return entries
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// cloneTurns deep-copies a turn slice so callers cannot alias the store's
// internal state.
func cloneTurns(turns []model.Turn) []model.Turn {
	out := make([]model.Turn, len(turns))
	for i, t := range turns {
		out[i] = t.Clone()
	}
	return out
}
