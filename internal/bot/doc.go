// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bot is the assistant behind the conversation service: a canned
// prompt/response table with follow-up suggestions. It stands in for a
// real model; the server only depends on the Responder interface, so a
// real backend can be swapped in without touching the routes.
package bot
