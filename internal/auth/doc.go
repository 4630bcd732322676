// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides password hashing and bearer-token issuance for
// the conversation service: bcrypt for credentials at rest, HS256 JWTs
// with a "sub" claim for request authentication.
package auth
