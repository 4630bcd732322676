// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - unified error handling for the CLI commands. Handlers
// always return errors; main decides how to display them and which exit
// code to use.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/Abirami-Senthil/chatverse/internal/api"
	"github.com/Abirami-Senthil/chatverse/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error.
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments.
	ExitUsageError = 2
	// ExitConfigError indicates a configuration error.
	ExitConfigError = 3
	// ExitAuthError indicates an authentication failure.
	ExitAuthError = 4
	// ExitNetworkError indicates the service could not be reached.
	ExitNetworkError = 5
)

// UsageError rejects malformed command invocations.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsageError
	}

	var cfgErr config.ValidationError
	if errors.As(err, &cfgErr) {
		return ExitConfigError
	}

	var remote *api.RemoteError
	if errors.As(err, &remote) {
		switch {
		case remote.Status == 401 || remote.Status == 403:
			return ExitAuthError
		case remote.Status == 0:
			// No HTTP status means the request never got a response.
			return ExitNetworkError
		}
	}

	return ExitGeneralError
}

// Exit displays an error and terminates with its exit code. Use only
// from main-level command dispatch.
func Exit(err error) {
	if err == nil {
		os.Exit(ExitSuccess)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(GetExitCode(err))
}
