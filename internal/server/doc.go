// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server implements the chatverse conversation service HTTP API.
//
// Endpoints:
//   - POST   /auth/register                         - Create an account
//   - POST   /auth/login                            - Authenticate
//   - GET    /chats/init?chat_name=NAME             - Create a chat with its opening greeting
//   - GET    /chats/                                - List the caller's chats
//   - GET    /chats/{chatID}                        - Load a chat with all interactions
//   - POST   /chats/{chatID}/messages               - Send a message, get the new interaction
//   - PATCH  /chats/{chatID}/messages/{id}          - Edit an interaction, truncating everything after it
//   - DELETE /chats/{chatID}/messages/{id}          - Delete an interaction and everything after it
//   - GET    /health                                - Health check
//
// Edit and delete are server-authoritative: both return the complete
// remaining interaction sequence so clients can replace their local
// timeline wholesale instead of patching it.
//
// Error responses carry a JSON body of the form {"detail": "..."}.
package server
