// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea chat view for the chatverse
// terminal client.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/Abirami-Senthil/chatverse/internal/config"
	"github.com/Abirami-Senthil/chatverse/internal/model"
	"github.com/Abirami-Senthil/chatverse/internal/session"
	"github.com/Abirami-Senthil/chatverse/internal/ui/styles"
)

// =============================================================================
// MODES
// =============================================================================

// Mode is the view's top-level mode.
type Mode int

const (
	// ModeChat is the normal transcript-and-input view.
	ModeChat Mode = iota

	// ModeList shows the conversation picker.
	ModeList

	// ModeNewChat prompts for a new conversation name.
	ModeNewChat

	// ModeEdit rewrites a previously sent message.
	ModeEdit

	// ModeConfirmDelete asks before deleting a turn.
	ModeConfirmDelete
)

// InputMode is the vim-like sub-mode within ModeChat.
type InputMode int

const (
	// InputInsert types into the message box.
	InputInsert InputMode = iota

	// InputNormal navigates the transcript.
	InputNormal
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. All conversation state
// lives in the session; the model holds only presentation state.
type Model struct {
	session *session.Session
	cfg     *config.Config
	theme   *styles.Theme

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	// promptInput backs both the new-conversation prompt and the edit
	// draft; the active mode decides which.
	promptInput textinput.Model

	mode      Mode
	inputMode InputMode

	width  int
	height int
	ready  bool

	// waiting is true while a session command is outstanding.
	waiting bool

	status    string
	statusErr bool

	// selected indexes selectableTurns(); -1 means no selection.
	selected int

	conversations []model.ConversationMeta
	listCursor    int

	// deleteTarget is the turn pending confirmation in ModeConfirmDelete.
	deleteTarget string

	quitting bool
}

// New creates the chat view over a session. The session may be unbound;
// the view then opens on the conversation picker.
func New(sess *session.Session, cfg *config.Config) *Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Focus()

	pi := textinput.New()
	pi.Prompt = "> "
	pi.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	vp := viewport.New(80, 20)

	m := &Model{
		session:     sess,
		cfg:         cfg,
		theme:       styles.NewTheme(cfg.UI.Theme),
		viewport:    vp,
		input:       ti,
		promptInput: pi,
		spinner:     sp,
		mode:        ModeChat,
		inputMode:   InputInsert,
		selected:    -1,
	}
	if sess.State() == session.StateUnbound {
		m.mode = ModeList
	}
	return m
}

// Init starts the spinner and, when no conversation is bound yet, fetches
// the conversation list.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.mode == ModeList {
		m.waiting = true
		cmds = append(cmds, listConversationsCmd(m.session, m.cfg.Server.Timeout()))
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// SELECTION HELPERS
// =============================================================================

// selectableTurns returns the IDs of turns that can be edited or deleted:
// confirmed turns carrying a user message, in transcript order.
func (m *Model) selectableTurns() []string {
	var ids []string
	for _, t := range m.session.Turns() {
		if t.Confirmed() && !t.IsOpening() {
			ids = append(ids, t.TurnID)
		}
	}
	return ids
}

// selectedTurnID resolves the current selection, or "" when nothing is
// selected or the selection fell off the end after a truncation.
func (m *Model) selectedTurnID() string {
	ids := m.selectableTurns()
	if m.selected < 0 || m.selected >= len(ids) {
		return ""
	}
	return ids[m.selected]
}

// clampSelection keeps the selection index in range after the turn
// sequence changes underneath it.
func (m *Model) clampSelection() {
	n := len(m.selectableTurns())
	if n == 0 {
		m.selected = -1
		return
	}
	if m.selected >= n {
		m.selected = n - 1
	}
}

// lastSuggestions returns the suggestions attached to the final display
// entry, which is the only place the session surfaces them.
func (m *Model) lastSuggestions() []string {
	entries := m.session.DisplayEntries()
	if len(entries) == 0 {
		return nil
	}
	return entries[len(entries)-1].Suggestions
}

// =============================================================================
// STATUS HELPERS
// =============================================================================

// setError routes a command failure into the status bar.
func (m *Model) setError(err error) {
	m.status = friendlyError(err)
	m.statusErr = true
}

// setInfo shows a transient informational status.
func (m *Model) setInfo(text string) {
	m.status = text
	m.statusErr = false
}

// clearStatus wipes the status bar.
func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}
