// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timeline holds the in-memory turn sequence for the currently
// active conversation and derives the display projection the UI renders.
//
// The store does no I/O. It accepts whatever turn sequence the server
// returns as authoritative: after an edit or delete the service sends the
// complete remaining sequence and the store replaces wholesale, never
// splicing locally. The projection (DisplayEntries) is pure and may be
// recomputed any number of times without side effects.
package timeline
