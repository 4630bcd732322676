// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session binds one conversation to its turn store and reconciles
// local state against the conversation service.
package session

import (
	"errors"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// All of these are detected synchronously, before any remote call is
// issued. Remote failures surface separately as *api.RemoteError.

// ValidationError rejects empty or malformed local input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StaleReferenceError rejects an operation that targets a turn no longer
// present locally (already deleted, or never confirmed).
type StaleReferenceError struct {
	TurnID string
}

func (e *StaleReferenceError) Error() string {
	return "turn " + e.TurnID + " is not present in the conversation"
}

// BusyError rejects a mutating call while another one is still in flight
// for the same session, or while an edit is open. Calls are rejected, not
// queued: a delayed truncating operation could otherwise run against
// indices that changed underneath it.
type BusyError struct {
	Reason string
}

func (e *BusyError) Error() string {
	return e.Reason
}

// UnboundError rejects an operation that requires an active conversation
// while none is selected.
type UnboundError struct{}

func (e *UnboundError) Error() string {
	return "no conversation is selected"
}

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStaleReference reports whether err targets a missing turn.
func IsStaleReference(err error) bool {
	var se *StaleReferenceError
	return errors.As(err, &se)
}

// IsBusy reports whether err is a serialization rejection.
func IsBusy(err error) bool {
	var be *BusyError
	return errors.As(err, &be)
}

// IsUnbound reports whether err indicates no bound conversation.
func IsUnbound(err error) bool {
	var ue *UnboundError
	return errors.As(err, &ue)
}
