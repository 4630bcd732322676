// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chatverse
// terminal client.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds all the styled components for the chat view.
type Theme struct {
	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserText       lipgloss.Style
	AssistantText  lipgloss.Style
	PendingMarker  lipgloss.Style
	SelectedTurn   lipgloss.Style
	Suggestion     lipgloss.Style
	SuggestionKey  lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS STYLES
	// ==========================================================================

	InputPrompt lipgloss.Style
	StatusBar   lipgloss.Style
	StatusError lipgloss.Style
	StatusInfo  lipgloss.Style
	Spinner     lipgloss.Style

	// ==========================================================================
	// CONVERSATION LIST STYLES
	// ==========================================================================

	ListTitle        lipgloss.Style
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style

	// ==========================================================================
	// OVERLAY STYLES
	// ==========================================================================

	PromptBox   lipgloss.Style
	ConfirmText lipgloss.Style
}

// palette is one theme's color assignments.
type palette struct {
	accent     lipgloss.Color
	user       lipgloss.Color
	assistant  lipgloss.Color
	muted      lipgloss.Color
	errorColor lipgloss.Color
	text       lipgloss.Color
}

var darkPalette = palette{
	accent:     lipgloss.Color("99"),
	user:       lipgloss.Color("39"),
	assistant:  lipgloss.Color("212"),
	muted:      lipgloss.Color("241"),
	errorColor: lipgloss.Color("196"),
	text:       lipgloss.Color("252"),
}

var lightPalette = palette{
	accent:     lipgloss.Color("55"),
	user:       lipgloss.Color("26"),
	assistant:  lipgloss.Color("162"),
	muted:      lipgloss.Color("245"),
	errorColor: lipgloss.Color("124"),
	text:       lipgloss.Color("235"),
}

// NewTheme creates a theme for the given name. Anything other than
// "light" yields the dark theme.
func NewTheme(name string) *Theme {
	p := darkPalette
	if name == "light" {
		p = lightPalette
	}
	return build(p)
}

func build(p palette) *Theme {
	return &Theme{
		Header: lipgloss.NewStyle().
			Foreground(p.text).
			Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),

		UserLabel: lipgloss.NewStyle().
			Foreground(p.user).
			Bold(true),
		AssistantLabel: lipgloss.NewStyle().
			Foreground(p.assistant).
			Bold(true),
		UserText: lipgloss.NewStyle().
			Foreground(p.text),
		AssistantText: lipgloss.NewStyle().
			Foreground(p.text),
		PendingMarker: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
		SelectedTurn: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),
		Suggestion: lipgloss.NewStyle().
			Foreground(p.muted),
		SuggestionKey: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),

		InputPrompt: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),
		StatusBar: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.muted),
		Spinner: lipgloss.NewStyle().
			Foreground(p.accent),

		ListTitle: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true).
			Padding(0, 1),
		ListItem: lipgloss.NewStyle().
			Foreground(p.text).
			Padding(0, 2),
		ListItemSelected: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true).
			Padding(0, 1),

		PromptBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(1, 2),
		ConfirmText: lipgloss.NewStyle().
			Foreground(p.errorColor).
			Bold(true),
	}
}

// SetSize records the terminal dimensions on the theme.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
