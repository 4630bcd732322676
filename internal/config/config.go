// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// chatverse.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Abirami-Senthil/chatverse/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatverse configuration.
type Config struct {
	Version string `toml:"version"`

	// Server is the client-side view of the conversation service.
	Server ServerConfig `toml:"server"`

	// Serve configures the `chatverse serve` service.
	Serve ServeConfig `toml:"serve"`

	// UI configures the terminal client.
	UI UIConfig `toml:"ui"`
}

// ServerConfig describes how the client reaches the conversation service.
type ServerConfig struct {
	// URL is the service base URL.
	URL string `toml:"url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
}

// Timeout returns the per-request timeout as a duration.
func (c ServerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ServeConfig configures the service side.
type ServeConfig struct {
	// ListenAddr is the address the service listens on.
	ListenAddr string `toml:"listen_addr"`
	// DatabasePath is the SQLite database file. Empty means
	// ~/.chatverse/chatverse.db.
	DatabasePath string `toml:"database_path"`
	// TokenSecret signs bearer tokens. Empty means a random secret is
	// generated at startup, invalidating tokens across restarts.
	TokenSecret string `toml:"token_secret"`
}

// UIConfig configures the terminal client.
type UIConfig struct {
	// Theme is the UI theme: "dark" or "light".
	Theme string `toml:"theme"`
	// ShowSuggestions renders the latest turn's follow-up suggestions.
	ShowSuggestions bool `toml:"show_suggestions"`
	// Markdown renders assistant responses through glamour.
	Markdown bool `toml:"markdown"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Server: ServerConfig{
			URL:         "http://127.0.0.1:8990",
			TimeoutSecs: 30,
		},

		Serve: ServeConfig{
			ListenAddr: "127.0.0.1:8990",
		},

		UI: UIConfig{
			Theme:           "dark",
			ShowSuggestions: true,
			Markdown:        true,
		},
	}
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.Server.URL == "" {
		cfg.Server.URL = defaults.Server.URL
	}
	if cfg.Server.TimeoutSecs == 0 {
		cfg.Server.TimeoutSecs = defaults.Server.TimeoutSecs
	}
	if cfg.Serve.ListenAddr == "" {
		cfg.Serve.ListenAddr = defaults.Serve.ListenAddr
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// ConfigDir returns the chatverse configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatverse"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CredentialsPath returns the path to the saved bearer token.
func CredentialsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials"), nil
}

// DatabasePath resolves the SQLite database location, falling back to
// ~/.chatverse/chatverse.db when unconfigured.
func (c *Config) DatabasePath() (string, error) {
	if c.Serve.DatabasePath != "" {
		return c.Serve.DatabasePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chatverse.db"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load loads configuration from ~/.chatverse/config.toml, falling back to
// defaults when the file is absent. Environment overrides apply last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(path); statErr != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies CHATVERSE_* environment variables on top of
// the loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CHATVERSE_SERVER_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("CHATVERSE_LISTEN_ADDR"); v != "" {
		c.Serve.ListenAddr = v
	}
	if v := os.Getenv("CHATVERSE_DB_PATH"); v != "" {
		c.Serve.DatabasePath = v
	}
	if v := os.Getenv("CHATVERSE_TOKEN_SECRET"); v != "" {
		c.Serve.TokenSecret = v
	}
	if v := os.Getenv("CHATVERSE_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for nonsensical values.
func (c *Config) Validate() error {
	if u, err := url.Parse(c.Server.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return ValidationError{
			Field:   "server.url",
			Message: fmt.Sprintf("invalid URL %q", c.Server.URL),
		}
	}

	if c.Server.TimeoutSecs < 0 {
		return ValidationError{
			Field:   "server.timeout_secs",
			Message: "timeout cannot be negative",
		}
	}

	if !strings.Contains(c.Serve.ListenAddr, ":") {
		return ValidationError{
			Field:   "serve.listen_addr",
			Message: fmt.Sprintf("invalid listen address %q", c.Serve.ListenAddr),
		}
	}

	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light":
	default:
		return ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme %q, must be dark or light", c.UI.Theme),
		}
	}

	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default config path.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to path atomically. The file is
// created 0600 since it may hold the token secret.
func SaveToPath(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# chatverse configuration file\n")
	sb.WriteString("# Generated by chatverse - edit with care\n\n")

	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// CREDENTIALS
// =============================================================================

// SaveToken persists the bearer token from login or register.
func SaveToken(token string) error {
	path, err := CredentialsPath()
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(path, []byte(token+"\n"), 0600)
}

// LoadToken returns the saved bearer token, or "" when none is stored.
func LoadToken() (string, error) {
	path, err := CredentialsPath()
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ClearToken removes the saved bearer token.
func ClearToken() error {
	path, err := CredentialsPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
