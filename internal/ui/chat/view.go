// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea chat view for the chatverse
// terminal client.
package chat

import (
	"fmt"
	"strings"

	"github.com/Abirami-Senthil/chatverse/internal/model"
	"github.com/Abirami-Senthil/chatverse/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the current mode.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeNewChat:
		return m.viewPrompt("New conversation", "Enter to create, Esc to cancel")
	case ModeEdit:
		return m.viewPrompt("Edit message", "Enter to save (later turns will be discarded), Esc to cancel")
	case ModeConfirmDelete:
		return m.viewConfirmDelete()
	default:
		return m.viewChat()
	}
}

// =============================================================================
// CHAT VIEW
// =============================================================================

func (m *Model) viewChat() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderSuggestions())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

func (m *Model) renderHeader() string {
	name := m.session.ConversationName()
	if name == "" {
		name = "chatverse"
	}
	title := m.theme.HeaderTitle.Render(util.TruncateWidth(name, m.width-12))
	if m.waiting {
		title += " " + m.theme.Spinner.Render(m.spinner.View())
	}
	return m.theme.Header.Render(title)
}

func (m *Model) renderSuggestions() string {
	sugs := m.lastSuggestions()
	if !m.cfg.UI.ShowSuggestions || len(sugs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(sugs))
	for i, s := range sugs {
		if i >= 9 {
			break
		}
		key := m.theme.SuggestionKey.Render(fmt.Sprintf("[%d]", i+1))
		parts = append(parts, key+" "+m.theme.Suggestion.Render(util.TruncateWidth(s, 40)))
	}
	return " " + strings.Join(parts, "  ")
}

func (m *Model) renderInput() string {
	if m.inputMode == InputNormal {
		hint := "-- NORMAL --  i:insert  J/K:select  e:edit  d:delete  n:new  s:conversations  q:quit"
		return m.theme.StatusInfo.Render(util.TruncateWidth(hint, m.width-2))
	}
	return m.input.View()
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return m.theme.StatusBar.Render("")
	}
	text := util.TruncateWidth(m.status, m.width-2)
	if m.statusErr {
		return m.theme.StatusBar.Render(m.theme.StatusError.Render(text))
	}
	return m.theme.StatusBar.Render(m.theme.StatusInfo.Render(text))
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// refreshViewport rebuilds the viewport content from the session. When
// follow is true the view jumps to the newest entry.
func (m *Model) refreshViewport(follow bool) {
	m.viewport.SetContent(m.renderTranscript())
	if follow {
		m.viewport.GotoBottom()
	}
}

// renderTranscript renders the full display projection. Assistant text
// goes through the markdown renderer when one is configured; user text is
// always plain.
func (m *Model) renderTranscript() string {
	entries := m.session.DisplayEntries()
	if len(entries) == 0 {
		return m.theme.StatusInfo.Render("No messages yet. Press i and start typing.")
	}

	selectedID := m.selectedTurnID()

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderEntry(e, e.Resolved() && e.TurnID == selectedID))
	}
	return b.String()
}

func (m *Model) renderEntry(e model.DisplayEntry, selected bool) string {
	label := e.Role.DisplayName()
	var header string
	switch e.Role {
	case model.RoleUser:
		header = m.theme.UserLabel.Render(label)
	default:
		header = m.theme.AssistantLabel.Render(label)
	}
	if selected && e.Role == model.RoleUser {
		header = m.theme.SelectedTurn.Render("> ") + header
	}
	if !e.Resolved() {
		header += " " + m.theme.PendingMarker.Render("(sending...)")
	}

	body := e.Text
	if e.Role == model.RoleAssistant && m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			body = strings.TrimRight(rendered, "\n")
		}
	}

	var style = m.theme.UserText
	if e.Role == model.RoleAssistant {
		style = m.theme.AssistantText
	}
	return header + "\n" + style.Render(body) + "\n"
}

// =============================================================================
// LIST VIEW
// =============================================================================

func (m *Model) viewList() string {
	var b strings.Builder
	b.WriteString(m.theme.ListTitle.Render("Conversations"))
	if m.waiting {
		b.WriteString(" " + m.theme.Spinner.Render(m.spinner.View()))
	}
	b.WriteString("\n\n")

	if len(m.conversations) == 0 && !m.waiting {
		b.WriteString(m.theme.StatusInfo.Render("  No conversations yet. Press n to start one."))
		b.WriteString("\n")
	}
	for i, c := range m.conversations {
		name := util.TruncateWidth(c.Name, m.width-6)
		if i == m.listCursor {
			b.WriteString(m.theme.ListItemSelected.Render("> " + name))
		} else {
			b.WriteString(m.theme.ListItem.Render(name))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.StatusInfo.Render("  enter:open  n:new  r:refresh  q:quit"))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

// =============================================================================
// PROMPT AND CONFIRM VIEWS
// =============================================================================

func (m *Model) viewPrompt(title, hint string) string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.promptInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.StatusInfo.Render(hint))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return m.theme.PromptBox.Render(b.String())
}

func (m *Model) viewConfirmDelete() string {
	var b strings.Builder
	b.WriteString(m.theme.ConfirmText.Render("Delete this message?"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.StatusInfo.Render("This also removes every later message in the conversation."))
	b.WriteString("\n\n")
	b.WriteString(m.theme.StatusInfo.Render("y:delete  n:cancel"))
	return m.theme.PromptBox.Render(b.String())
}
