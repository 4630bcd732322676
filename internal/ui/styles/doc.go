// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chatverse
// terminal client. A Theme bundles every lipgloss style the chat view
// needs; dark and light palettes are built from the same layout rules.
package styles
