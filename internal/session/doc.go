// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session binds one conversation to its turn store and reconciles
// local state against the conversation service.
//
// The session is the sole writer of the turn store. Each user action
// (create, send, edit, delete, switch) is validated synchronously, issued
// against the service, and the server's response is applied as the
// authoritative new state: sends confirm the optimistic provisional turn
// in place, edits and deletes replace the whole sequence with whatever
// the server says remains. Mutating calls are serialized per session; a
// second one issued while the first is still in flight is rejected with
// BusyError rather than queued.
package session
