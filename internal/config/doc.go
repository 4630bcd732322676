// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// chatverse.
//
// Configuration is TOML, loaded from ~/.chatverse/config.toml with
// built-in defaults and CHATVERSE_* environment variable overrides.
// The saved bearer token lives separately in ~/.chatverse/credentials.
package config
