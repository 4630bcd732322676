// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - register, login, and logout. A successful register or
// login stores the bearer token under ~/.chatverse with 0600 permissions
// so the TUI and sessions commands can reuse it.
package cli

import (
	"context"
	"fmt"

	"github.com/Abirami-Senthil/chatverse/internal/api"
	"github.com/Abirami-Senthil/chatverse/internal/config"
)

// HandleRegister creates an account and stores the returned token.
func HandleRegister(args Args) error {
	return authenticate(args, true)
}

// HandleLogin logs in and stores the returned token.
func HandleLogin(args Args) error {
	return authenticate(args, false)
}

func authenticate(args Args, register bool) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	username := args.Username
	if username == "" {
		username, err = promptLine("Username: ")
		if err != nil {
			return err
		}
	}
	if username == "" {
		return &UsageError{Message: "username is required"}
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return &UsageError{Message: "password is required"}
	}

	if register {
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return &UsageError{Message: "passwords do not match"}
		}
	}

	client := newClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout())
	defer cancel()

	var token *api.TokenResponse
	if register {
		token, err = client.Register(ctx, username, password)
	} else {
		token, err = client.Login(ctx, username, password)
	}
	if err != nil {
		return err
	}

	if err := config.SaveToken(token.AccessToken); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	if !args.Quiet {
		if register {
			fmt.Printf("Account %q created and logged in.\n", username)
		} else {
			fmt.Printf("Logged in as %q.\n", username)
		}
	}
	return nil
}

// HandleLogout forgets the stored token.
func HandleLogout(args Args) error {
	if err := config.ClearToken(); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	if !args.Quiet {
		fmt.Println("Logged out.")
	}
	return nil
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig loads the effective configuration honoring the --config and
// --server overrides.
func loadConfig(args Args) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if args.ServerURL != "" {
		cfg.Server.URL = args.ServerURL
	}
	if args.ListenAddr != "" {
		cfg.Serve.ListenAddr = args.ListenAddr
	}
	return cfg, nil
}

// newClient builds an API client from the configuration.
func newClient(cfg *config.Config) *api.Client {
	return api.NewClientWithConfig(&api.ClientConfig{
		BaseURL: cfg.Server.URL,
		Timeout: cfg.Server.Timeout(),
	})
}

// authedClient builds a client carrying the stored token.
func authedClient(cfg *config.Config) (*api.Client, error) {
	token, err := config.LoadToken()
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	if token == "" {
		return nil, &UsageError{Message: "not logged in: run 'chatverse login' first"}
	}
	client := newClient(cfg)
	client.SetToken(token)
	return client, nil
}
