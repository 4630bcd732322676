// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea chat view for the chatverse
// terminal client.
//
// This file defines the Bubble Tea message types the view exchanges with
// its commands, and the command creators that call into the session.
// Commands never touch the model directly: they run the session call and
// return a result message carrying only the error, because the session is
// the single source of truth and the view re-reads it on every render.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Abirami-Senthil/chatverse/internal/model"
	"github.com/Abirami-Senthil/chatverse/internal/session"
)

// =============================================================================
// RESULT MESSAGES
// =============================================================================

// SendResultMsg reports the outcome of a message send.
type SendResultMsg struct {
	Err error
}

// EditResultMsg reports the outcome of saving a pending edit.
type EditResultMsg struct {
	Err error
}

// DeleteResultMsg reports the outcome of a turn deletion.
type DeleteResultMsg struct {
	Err error
}

// ConversationCreatedMsg reports the outcome of creating a conversation.
type ConversationCreatedMsg struct {
	Err error
}

// ConversationSelectedMsg reports the outcome of switching conversations.
type ConversationSelectedMsg struct {
	Err error
}

// ConversationListMsg delivers the user's conversations.
type ConversationListMsg struct {
	Conversations []model.ConversationMeta
	Err           error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// sendMessageCmd dispatches a message through the session.
func sendMessageCmd(sess *session.Session, text string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return SendResultMsg{Err: sess.Send(ctx, text)}
	}
}

// saveEditCmd submits the session's pending edit.
func saveEditCmd(sess *session.Session, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return EditResultMsg{Err: sess.SaveEdit(ctx)}
	}
}

// deleteTurnCmd deletes a turn and everything after it.
func deleteTurnCmd(sess *session.Session, turnID string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return DeleteResultMsg{Err: sess.Delete(ctx, turnID)}
	}
}

// createConversationCmd creates and binds a new conversation.
func createConversationCmd(sess *session.Session, name string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ConversationCreatedMsg{Err: sess.Create(ctx, name)}
	}
}

// selectConversationCmd switches the session to another conversation.
func selectConversationCmd(sess *session.Session, conversationID string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return ConversationSelectedMsg{Err: sess.Select(ctx, conversationID)}
	}
}

// listConversationsCmd fetches the conversation list.
func listConversationsCmd(sess *session.Session, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		metas, err := sess.List(ctx)
		return ConversationListMsg{Conversations: metas, Err: err}
	}
}
