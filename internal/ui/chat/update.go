// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea chat view for the chatverse
// terminal client.
package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/Abirami-Senthil/chatverse/internal/api"
	"github.com/Abirami-Senthil/chatverse/internal/session"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update is the Bubble Tea update loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.waiting {
			// A session command may have appended a provisional turn
			// since the last render; keep the transcript current.
			m.refreshViewport(true)
		}
		return m, cmd

	case SendResultMsg:
		m.waiting = false
		if msg.Err != nil {
			m.status = friendlyError(msg.Err) + " (x discards the unsent message)"
			m.statusErr = true
		} else {
			m.clearStatus()
		}
		m.clampSelection()
		m.refreshViewport(true)
		return m, nil

	case EditResultMsg:
		m.waiting = false
		m.mode = ModeChat
		if msg.Err != nil {
			m.setError(msg.Err)
		} else {
			m.clearStatus()
			m.selected = -1
		}
		m.clampSelection()
		m.refreshViewport(true)
		return m, nil

	case DeleteResultMsg:
		m.waiting = false
		if msg.Err != nil {
			m.setError(msg.Err)
		} else {
			m.clearStatus()
			m.selected = -1
		}
		m.clampSelection()
		m.refreshViewport(true)
		return m, nil

	case ConversationCreatedMsg:
		m.waiting = false
		if msg.Err != nil {
			m.setError(msg.Err)
			return m, nil
		}
		m.enterChat()
		return m, textinput.Blink

	case ConversationSelectedMsg:
		m.waiting = false
		if msg.Err != nil {
			m.setError(msg.Err)
			m.mode = ModeList
			return m, nil
		}
		m.enterChat()
		return m, textinput.Blink

	case ConversationListMsg:
		m.waiting = false
		if msg.Err != nil {
			m.setError(msg.Err)
			return m, nil
		}
		m.conversations = msg.Conversations
		if m.listCursor >= len(m.conversations) {
			m.listCursor = len(m.conversations) - 1
		}
		if m.listCursor < 0 {
			m.listCursor = 0
		}
		return m, nil
	}

	return m, nil
}

// enterChat switches back to the transcript after a bind succeeded.
func (m *Model) enterChat() {
	m.mode = ModeChat
	m.inputMode = InputInsert
	m.input.Reset()
	m.input.Focus()
	m.selected = -1
	m.clearStatus()
	m.refreshViewport(true)
}

// =============================================================================
// RESIZE
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	// Header, suggestions, input, and status each take a line, plus
	// spacing around the transcript.
	vpHeight := msg.Height - 6
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = vpHeight
	m.input.Width = msg.Width - 4
	m.promptInput.Width = msg.Width - 4

	if m.cfg.UI.Markdown {
		wrap := msg.Width - 4
		if wrap < 20 {
			wrap = 20
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err == nil {
			m.renderer = r
		}
	}

	m.ready = true
	m.refreshViewport(true)
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.mode {
	case ModeChat:
		return m.handleChatKey(msg)
	case ModeList:
		return m.handleListKey(msg)
	case ModeNewChat:
		return m.handleNewChatKey(msg)
	case ModeEdit:
		return m.handleEditKey(msg)
	case ModeConfirmDelete:
		return m.handleConfirmDeleteKey(msg)
	}
	return m, nil
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode == InputInsert {
		switch msg.Type {
		case tea.KeyEsc:
			m.inputMode = InputNormal
			m.input.Blur()
			return m, nil
		case tea.KeyEnter:
			return m.submitMessage(m.input.Value())
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	// Normal mode.
	switch msg.String() {
	case "i":
		m.inputMode = InputInsert
		m.input.Focus()
		return m, textinput.Blink

	case "j", "down":
		m.viewport.LineDown(1)
	case "k", "up":
		m.viewport.LineUp(1)
	case "g":
		m.viewport.GotoTop()
	case "G":
		m.viewport.GotoBottom()

	case "J":
		m.moveSelection(1)
		m.refreshViewport(false)
	case "K":
		m.moveSelection(-1)
		m.refreshViewport(false)

	case "esc":
		m.selected = -1
		m.clearStatus()
		m.refreshViewport(false)

	case "e":
		return m.beginEdit()

	case "d":
		id := m.targetTurnID()
		if id == "" {
			m.setInfo("Nothing to delete")
			return m, nil
		}
		m.deleteTarget = id
		m.mode = ModeConfirmDelete
		return m, nil

	case "x":
		m.session.DiscardUnsent()
		m.clearStatus()
		m.clampSelection()
		m.refreshViewport(true)

	case "n":
		m.openNewChatPrompt()
		return m, textinput.Blink

	case "s":
		m.mode = ModeList
		m.waiting = true
		return m, listConversationsCmd(m.session, m.cfg.Server.Timeout())

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		sugs := m.lastSuggestions()
		if idx < len(sugs) {
			return m.submitMessage(sugs[idx])
		}

	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// submitMessage dispatches a send and clears the input box.
func (m *Model) submitMessage(text string) (tea.Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" {
		return m, nil
	}
	if m.waiting {
		m.setInfo("Still waiting for the previous operation")
		return m, nil
	}
	m.input.Reset()
	m.waiting = true
	m.clearStatus()
	m.viewport.GotoBottom()
	return m, sendMessageCmd(m.session, text, m.cfg.Server.Timeout())
}

// beginEdit opens the edit prompt on the selected turn. BeginEdit is a
// local state transition; only SaveEdit talks to the server.
func (m *Model) beginEdit() (tea.Model, tea.Cmd) {
	id := m.targetTurnID()
	if id == "" {
		m.setInfo("Nothing to edit")
		return m, nil
	}
	if err := m.session.BeginEdit(id); err != nil {
		m.setError(err)
		return m, nil
	}
	pending, _ := m.session.PendingEdit()
	m.promptInput.Placeholder = ""
	m.promptInput.SetValue(pending.Draft)
	m.promptInput.CursorEnd()
	m.promptInput.Focus()
	m.mode = ModeEdit
	m.clearStatus()
	return m, textinput.Blink
}

// targetTurnID resolves the turn an edit or delete applies to: the
// explicit selection when there is one, otherwise the latest user turn.
func (m *Model) targetTurnID() string {
	if id := m.selectedTurnID(); id != "" {
		return id
	}
	ids := m.selectableTurns()
	if len(ids) == 0 {
		return ""
	}
	return ids[len(ids)-1]
}

func (m *Model) moveSelection(delta int) {
	ids := m.selectableTurns()
	if len(ids) == 0 {
		m.selected = -1
		return
	}
	if m.selected < 0 {
		m.selected = len(ids) - 1
		return
	}
	m.selected += delta
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= len(ids) {
		m.selected = len(ids) - 1
	}
}

func (m *Model) openNewChatPrompt() {
	m.promptInput.Placeholder = "Conversation name"
	m.promptInput.Reset()
	m.promptInput.Focus()
	m.mode = ModeNewChat
	m.clearStatus()
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.listCursor < len(m.conversations)-1 {
			m.listCursor++
		}
	case "k", "up":
		if m.listCursor > 0 {
			m.listCursor--
		}
	case "enter":
		if m.waiting || len(m.conversations) == 0 {
			return m, nil
		}
		m.waiting = true
		id := m.conversations[m.listCursor].ID
		return m, selectConversationCmd(m.session, id, m.cfg.Server.Timeout())
	case "n":
		m.openNewChatPrompt()
		return m, textinput.Blink
	case "r":
		if !m.waiting {
			m.waiting = true
			return m, listConversationsCmd(m.session, m.cfg.Server.Timeout())
		}
	case "esc", "q":
		if m.session.State() != session.StateUnbound {
			m.mode = ModeChat
			m.refreshViewport(false)
			return m, nil
		}
		if msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) handleNewChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.promptInput.Value())
		if name == "" {
			m.setInfo("Conversation name cannot be empty")
			return m, nil
		}
		if m.waiting {
			return m, nil
		}
		m.waiting = true
		return m, createConversationCmd(m.session, name, m.cfg.Server.Timeout())
	case tea.KeyEsc:
		if m.session.State() == session.StateUnbound {
			m.mode = ModeList
		} else {
			m.mode = ModeChat
		}
		m.clearStatus()
		return m, nil
	default:
		var cmd tea.Cmd
		m.promptInput, cmd = m.promptInput.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.waiting {
			return m, nil
		}
		if err := m.session.UpdateDraft(m.promptInput.Value()); err != nil {
			m.setError(err)
			m.mode = ModeChat
			return m, nil
		}
		m.waiting = true
		return m, saveEditCmd(m.session, m.cfg.Server.Timeout())
	case tea.KeyEsc:
		m.session.CancelEdit()
		m.mode = ModeChat
		m.clearStatus()
		return m, nil
	default:
		var cmd tea.Cmd
		m.promptInput, cmd = m.promptInput.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleConfirmDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if m.waiting {
			return m, nil
		}
		id := m.deleteTarget
		m.deleteTarget = ""
		m.mode = ModeChat
		m.waiting = true
		return m, deleteTurnCmd(m.session, id, m.cfg.Server.Timeout())
	case "n", "esc", "q":
		m.deleteTarget = ""
		m.mode = ModeChat
		m.clearStatus()
	}
	return m, nil
}

// =============================================================================
// ERROR PRESENTATION
// =============================================================================

// friendlyError maps session and transport errors to status-bar text.
func friendlyError(err error) string {
	if err == nil {
		return ""
	}
	var remote *api.RemoteError
	switch {
	case session.IsUnbound(err):
		return "No conversation selected"
	case session.IsBusy(err):
		return "Busy: " + err.Error()
	case session.IsStaleReference(err):
		return "That message no longer exists"
	case session.IsValidation(err):
		return err.Error()
	case errors.As(err, &remote):
		if api.IsUnauthorized(err) {
			return "Authentication failed: log in again"
		}
		return "Server error: " + remote.Message
	default:
		return err.Error()
	}
}
