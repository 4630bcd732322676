// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - inspect and mutate the config file.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Abirami-Senthil/chatverse/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(args)
	case "path":
		path, err := configFilePath(args)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "set":
		return configSet(args)
	default:
		return &UsageError{Message: fmt.Sprintf("unknown config subcommand %q (want show, set, or path)", args.Subcommand)}
	}
}

func configShow(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	fmt.Printf("server.url            = %s\n", cfg.Server.URL)
	fmt.Printf("server.timeout_secs   = %d\n", cfg.Server.TimeoutSecs)
	fmt.Printf("serve.listen_addr     = %s\n", cfg.Serve.ListenAddr)
	if cfg.Serve.DatabasePath != "" {
		fmt.Printf("serve.db_path         = %s\n", cfg.Serve.DatabasePath)
	} else {
		dbPath, err := cfg.DatabasePath()
		if err == nil {
			fmt.Printf("serve.db_path         = %s (default)\n", dbPath)
		}
	}
	fmt.Printf("ui.theme              = %s\n", cfg.UI.Theme)
	fmt.Printf("ui.show_suggestions   = %t\n", cfg.UI.ShowSuggestions)
	fmt.Printf("ui.markdown           = %t\n", cfg.UI.Markdown)
	return nil
}

func configSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return &UsageError{Message: "usage: chatverse config set KEY VALUE"}
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	if err := applyConfigValue(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if args.ConfigPath != "" {
		err = config.SaveToPath(cfg, args.ConfigPath)
	} else {
		err = config.Save(cfg)
	}
	if err != nil {
		return err
	}

	if !args.Quiet {
		fmt.Printf("Set %s = %s\n", args.ConfigKey, args.ConfigVal)
	}
	return nil
}

// applyConfigValue routes a dotted key to its config field.
func applyConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "server.url":
		cfg.Server.URL = value
	case "server.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &UsageError{Message: fmt.Sprintf("server.timeout_secs must be a number, got %q", value)}
		}
		cfg.Server.TimeoutSecs = n
	case "serve.listen_addr":
		cfg.Serve.ListenAddr = value
	case "serve.db_path":
		cfg.Serve.DatabasePath = value
	case "serve.token_secret":
		cfg.Serve.TokenSecret = value
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.show_suggestions":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &UsageError{Message: fmt.Sprintf("ui.show_suggestions must be true or false, got %q", value)}
		}
		cfg.UI.ShowSuggestions = b
	case "ui.markdown":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &UsageError{Message: fmt.Sprintf("ui.markdown must be true or false, got %q", value)}
		}
		cfg.UI.Markdown = b
	default:
		return &UsageError{Message: fmt.Sprintf("unknown config key %q", key)}
	}
	return nil
}
