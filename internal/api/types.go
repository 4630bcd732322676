// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the chatverse conversation
// service.
package api

import (
	"time"

	"github.com/Abirami-Senthil/chatverse/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// Interaction is the service's wire representation of one turn.
type Interaction struct {
	InteractionID string    `json:"interaction_id"`
	Index         int       `json:"index"`
	Message       *string   `json:"message"`
	Response      string    `json:"response"`
	Suggestions   []string  `json:"suggestions,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ToTurn converts a wire interaction to the client's turn type.
func (i Interaction) ToTurn() model.Turn {
	t := model.Turn{
		TurnID:            i.InteractionID,
		AssistantResponse: i.Response,
		Suggestions:       i.Suggestions,
		Timestamp:         i.Timestamp,
	}
	if i.Message != nil {
		msg := *i.Message
		t.UserMessage = &msg
	}
	return t
}

// toTurns converts a server-ordered interaction list.
func toTurns(interactions []Interaction) []model.Turn {
	turns := make([]model.Turn, len(interactions))
	for idx, i := range interactions {
		turns[idx] = i.ToTurn()
	}
	return turns
}

// createChatResponse is returned by GET /chats/init.
type createChatResponse struct {
	ChatID      string      `json:"chat_id"`
	ChatName    string      `json:"chat_name"`
	Interaction Interaction `json:"interaction"`
}

// chatSummary is one element of the GET /chats/ listing.
type chatSummary struct {
	ChatID   string `json:"chat_id"`
	ChatName string `json:"chat_name"`
}

// chatResponse is returned by GET /chats/{id}.
type chatResponse struct {
	ChatID       string        `json:"chat_id"`
	ChatName     string        `json:"chat_name"`
	Interactions []Interaction `json:"interactions"`
}

// messageRequest is the body for send and edit calls.
type messageRequest struct {
	Message string `json:"message"`
}

// credentialsRequest is the body for register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by the auth endpoints.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// errorResponse is the service's error body.
type errorResponse struct {
	Detail string `json:"detail"`
}
