// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve_cmd.go - runs the conversation service: SQLite storage, the
// canned responder, token auth, and the HTTP server, with graceful
// shutdown on SIGINT/SIGTERM.
package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abirami-Senthil/chatverse/internal/auth"
	"github.com/Abirami-Senthil/chatverse/internal/bot"
	"github.com/Abirami-Senthil/chatverse/internal/config"
	"github.com/Abirami-Senthil/chatverse/internal/server"
	"github.com/Abirami-Senthil/chatverse/internal/storage"
)

// HandleServe runs the conversation service until interrupted.
func HandleServe(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)

	dbPath := cfg.Serve.DatabasePath
	if dbPath == "" {
		dbPath, err = cfg.DatabasePath()
		if err != nil {
			return fmt.Errorf("resolving database path: %w", err)
		}
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	secret := []byte(cfg.Serve.TokenSecret)
	if len(secret) == 0 {
		// Without a configured secret, tokens do not survive a restart.
		secret = randomSecret()
		logger.Printf("TOKEN_SECRET_GENERATED | tokens are invalidated on restart; set serve.token_secret to persist them")
	}

	srv := server.NewServer(cfg.Serve.ListenAddr, store, bot.NewCannedResponder(), auth.NewTokenIssuer(secret))

	// Reloads are logged so an operator can tell a restart is needed;
	// the listen address and database cannot change live.
	if path, pathErr := configFilePath(args); pathErr == nil {
		watcher, werr := config.NewWatcher(path, func(updated *config.Config) {
			logger.Printf("CONFIG_RELOADED | path=%s", path)
			if updated.Serve.ListenAddr != cfg.Serve.ListenAddr {
				logger.Printf("CONFIG_RESTART_REQUIRED | field=serve.listen_addr")
			}
		})
		if werr == nil {
			if werr = watcher.Watch(); werr == nil {
				defer watcher.Close()
			}
		}
		if werr != nil {
			logger.Printf("CONFIG_WATCH_FAILED | error=%v", werr)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("SERVER_START | addr=%s db=%s", cfg.Serve.ListenAddr, dbPath)
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Printf("SERVER_SHUTDOWN | signal=%s", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// configFilePath resolves the path the watcher should observe.
func configFilePath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPath()
}

func randomSecret() []byte {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	out := make([]byte, hex.EncodedLen(len(raw)))
	hex.Encode(out, raw)
	return out
}
