// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the chatverse conversation
// service.
//
// All wire shapes are decoded exactly once at this boundary into explicit
// structs and converted to model types; nothing deeper in the client
// inspects response structure. Failures surface as *RemoteError carrying
// the HTTP status and the service's detail message.
package api
