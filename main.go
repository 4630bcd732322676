// chatverse - a conversational assistant for the terminal.
//
// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"github.com/Abirami-Senthil/chatverse/internal/cli"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		cli.Exit(cli.HandleTUI(args))
	case cli.CmdServe:
		cli.Exit(cli.HandleServe(args))
	case cli.CmdRegister:
		cli.Exit(cli.HandleRegister(args))
	case cli.CmdLogin:
		cli.Exit(cli.HandleLogin(args))
	case cli.CmdLogout:
		cli.Exit(cli.HandleLogout(args))
	case cli.CmdSessions:
		cli.Exit(cli.HandleSessions(args))
	case cli.CmdConfig:
		cli.Exit(cli.HandleConfig(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}
