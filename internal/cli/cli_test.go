// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses chatverse's command line and implements the
// non-interactive commands.
package cli

import (
	"testing"

	"github.com/Abirami-Senthil/chatverse/internal/api"
	"github.com/Abirami-Senthil/chatverse/internal/config"
)

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, _ := parse(nil)
	if cmd != CmdTUI {
		t.Fatalf("parse(nil) = %d, want CmdTUI", cmd)
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"serve"}, CmdServe},
		{[]string{"server"}, CmdServe},
		{[]string{"register"}, CmdRegister},
		{[]string{"signup"}, CmdRegister},
		{[]string{"login"}, CmdLogin},
		{[]string{"logout"}, CmdLogout},
		{[]string{"sessions"}, CmdSessions},
		{[]string{"ls"}, CmdSessions},
		{[]string{"config"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"tui"}, CmdTUI},
	}

	for _, tt := range tests {
		cmd, _ := parse(tt.argv)
		if cmd != tt.want {
			t.Errorf("parse(%v) = %d, want %d", tt.argv, cmd, tt.want)
		}
	}
}

func TestParseUnknownCommandFallsBackToTUI(t *testing.T) {
	cmd, args := parse([]string{"bogus", "extra"})
	if cmd != CmdTUI {
		t.Fatalf("cmd = %d, want CmdTUI", cmd)
	}
	if len(args.Raw) != 2 || args.Raw[0] != "bogus" {
		t.Fatalf("Raw = %v, want the original args preserved", args.Raw)
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parse([]string{"--server", "http://example.test:9999", "-q", "sessions"})
	if cmd != CmdSessions {
		t.Fatalf("cmd = %d, want CmdSessions", cmd)
	}
	if args.ServerURL != "http://example.test:9999" {
		t.Errorf("ServerURL = %q", args.ServerURL)
	}
	if !args.Quiet {
		t.Error("Quiet not set")
	}
}

func TestParseEqualsSyntax(t *testing.T) {
	_, args := parse([]string{"--server=http://x:1", "--config=/tmp/c.toml"})
	if args.ServerURL != "http://x:1" {
		t.Errorf("ServerURL = %q", args.ServerURL)
	}
	if args.ConfigPath != "/tmp/c.toml" {
		t.Errorf("ConfigPath = %q", args.ConfigPath)
	}
}

func TestParseServeListen(t *testing.T) {
	_, args := parse([]string{"serve", "--listen", "0.0.0.0:8080"})
	if args.ListenAddr != "0.0.0.0:8080" {
		t.Fatalf("ListenAddr = %q", args.ListenAddr)
	}

	_, args = parse([]string{"serve", "--listen=127.0.0.1:9001"})
	if args.ListenAddr != "127.0.0.1:9001" {
		t.Fatalf("ListenAddr = %q", args.ListenAddr)
	}
}

func TestParseRegisterUsername(t *testing.T) {
	_, args := parse([]string{"register", "alice"})
	if args.Username != "alice" {
		t.Fatalf("Username = %q, want alice", args.Username)
	}
}

func TestParseConfigSet(t *testing.T) {
	_, args := parse([]string{"config", "set", "ui.theme", "light"})
	if args.Subcommand != "set" || args.ConfigKey != "ui.theme" || args.ConfigVal != "light" {
		t.Fatalf("got subcommand=%q key=%q val=%q", args.Subcommand, args.ConfigKey, args.ConfigVal)
	}
}

// =============================================================================
// CONFIG KEY TESTS
// =============================================================================

func TestApplyConfigValue(t *testing.T) {
	cfg := config.Default()

	if err := applyConfigValue(cfg, "ui.theme", "light"); err != nil {
		t.Fatalf("ui.theme: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}

	if err := applyConfigValue(cfg, "server.timeout_secs", "60"); err != nil {
		t.Fatalf("timeout: %v", err)
	}
	if cfg.Server.TimeoutSecs != 60 {
		t.Errorf("TimeoutSecs = %d", cfg.Server.TimeoutSecs)
	}

	if err := applyConfigValue(cfg, "ui.markdown", "false"); err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if cfg.UI.Markdown {
		t.Error("Markdown should be false")
	}
}

func TestApplyConfigValueRejectsBadInput(t *testing.T) {
	cfg := config.Default()

	if err := applyConfigValue(cfg, "nope.nope", "x"); err == nil {
		t.Error("unknown key should fail")
	}
	if err := applyConfigValue(cfg, "server.timeout_secs", "soon"); err == nil {
		t.Error("non-numeric timeout should fail")
	}
	if err := applyConfigValue(cfg, "ui.markdown", "probably"); err == nil {
		t.Error("non-boolean markdown should fail")
	}
}

// =============================================================================
// EXIT CODE TESTS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", &UsageError{Message: "bad"}, ExitUsageError},
		{"config", config.ValidationError{Field: "ui.theme", Message: "bad"}, ExitConfigError},
		{"unauthorized", &api.RemoteError{Status: 401, Message: "no"}, ExitAuthError},
		{"forbidden", &api.RemoteError{Status: 403, Message: "no"}, ExitAuthError},
		{"unreachable", &api.RemoteError{Message: "service unreachable"}, ExitNetworkError},
		{"server error", &api.RemoteError{Status: 500, Message: "boom"}, ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
