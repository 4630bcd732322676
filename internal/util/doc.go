// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across chatverse: crash-safe
// file writing and display-width aware string truncation.
package util
