// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - command-line parsing and the usage text for chatverse.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdServe
	CmdRegister
	CmdLogin
	CmdLogout
	CmdSessions
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool

	// ServerURL overrides the configured service URL.
	ServerURL string

	// ConfigPath overrides the default config file location.
	ConfigPath string

	// Command-specific
	Username   string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// ListenAddr overrides the serve listen address.
	ListenAddr string

	// Raw args remaining after flag parsing.
	Raw []string
}

const usageText = `chatverse - a conversational assistant for the terminal

Chatverse keeps named conversations with an assistant. Every message
you send, edit, or delete is reconciled against the server, so the
transcript you see is always the server's history.

Usage:
  chatverse                     Start the chat TUI (default)
  chatverse serve               Run the conversation service
    --listen ADDR               Listen address (default 127.0.0.1:8990)
  chatverse register [user]     Create an account and log in
  chatverse login [user]        Log in and store the token
  chatverse logout              Forget the stored token
  chatverse sessions            List your conversations
  chatverse config [show|set|path]
                                Inspect or change configuration
  chatverse version             Show version information
  chatverse help                Show this help

Config Commands:
  chatverse config show               Show the effective configuration
  chatverse config path               Print the config file location
  chatverse config set KEY VALUE      Set a value and save
    Keys: server.url, server.timeout_secs, serve.listen_addr,
          serve.db_path, ui.theme, ui.show_suggestions, ui.markdown

Global Flags:
  --server URL    Override the service URL for this invocation
  --config PATH   Use an alternate config file
  -q, --quiet     Minimal output
  -v, --verbose   Debug output

Keys inside the TUI:
  i / Esc         Enter / leave typing mode
  Enter           Send the message
  1-9             Send a numbered suggestion
  J / K           Select an earlier message
  e               Edit the selected message (discards later messages)
  d               Delete the selected message (discards later messages)
  x               Discard a message that failed to send
  n               Start a new conversation
  s               Switch conversations
  q               Quit

Environment:
  CHATVERSE_SERVER_URL, CHATVERSE_LISTEN_ADDR, CHATVERSE_DB_PATH,
  CHATVERSE_TOKEN_SECRET, CHATVERSE_THEME override the config file.

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("chatverse version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

func parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui", "chat":
		return CmdTUI, args

	case "serve", "server":
		parseServeArgs(&args, remaining)
		return CmdServe, args

	case "register", "signup":
		if len(remaining) > 0 {
			args.Username = remaining[0]
		}
		return CmdRegister, args

	case "login":
		if len(remaining) > 0 {
			args.Username = remaining[0]
		}
		return CmdLogin, args

	case "logout":
		return CmdLogout, args

	case "sessions", "session", "conversations", "ls":
		return CmdSessions, args

	case "config":
		parseConfigArgs(&args, remaining)
		return CmdConfig, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Unknown command: keep it in Raw and fall back to the TUI so a
		// typo does not crash the tool.
		args.Raw = append([]string{cmd}, remaining...)
		return CmdTUI, args
	}
}

// parseGlobalFlags extracts global flags from args and returns the rest.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	args := Args{}

	i := 0
	for i < len(argv) {
		arg := argv[i]

		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--server":
			if i+1 < len(argv) {
				i++
				args.ServerURL = argv[i]
			}
		case "--config":
			if i+1 < len(argv) {
				i++
				args.ConfigPath = argv[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--server="):
				args.ServerURL = strings.TrimPrefix(arg, "--server=")
			case strings.HasPrefix(arg, "--config="):
				args.ConfigPath = strings.TrimPrefix(arg, "--config=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, args
}

// parseServeArgs parses serve command specific arguments.
func parseServeArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "--listen" && i+1 < len(remaining):
			i++
			args.ListenAddr = remaining[i]
		case strings.HasPrefix(arg, "--listen="):
			args.ListenAddr = strings.TrimPrefix(arg, "--listen=")
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
	}
	if len(remaining) > 1 {
		args.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		args.ConfigVal = remaining[2]
	}
}
