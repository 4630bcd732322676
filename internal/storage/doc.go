// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists users, chats, and interactions for the
// conversation service in SQLite.
//
// Interactions carry a per-chat index that defines the authoritative
// order. Edit and delete are destructive: editing interaction i removes
// every interaction with a higher index, deleting removes i and every
// higher index. Both return the complete remaining ordered sequence, so
// clients never compute truncation themselves.
package storage
