// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server implements the chatverse conversation service HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Abirami-Senthil/chatverse/internal/auth"
	"github.com/Abirami-Senthil/chatverse/internal/bot"
	"github.com/Abirami-Senthil/chatverse/internal/storage"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "127.0.0.1:8990"

	// MaxRequestBodySize caps request bodies at 64KB.
	MaxRequestBodySize = 64 * 1024

	// MaxMessageLength is the maximum length of a user message.
	MaxMessageLength = 4096

	// MaxChatNameLength is the maximum length of a chat name.
	MaxChatNameLength = 128

	// Version is the server version.
	Version = "0.1.0"
)

// ============================================================================
// SERVER
// ============================================================================

// Server is the conversation service HTTP server.
type Server struct {
	addr   string
	router *http.ServeMux
	server *http.Server

	store  *storage.Store
	bot    bot.Responder
	tokens *auth.TokenIssuer
}

// NewServer creates a Server on the given address. If addr is empty, the
// default address (127.0.0.1:8990) is used.
func NewServer(addr string, store *storage.Store, responder bot.Responder, tokens *auth.TokenIssuer) *Server {
	if addr == "" {
		addr = DefaultAddr
	}

	s := &Server{
		addr:   addr,
		router: http.NewServeMux(),
		store:  store,
		bot:    responder,
		tokens: tokens,
	}

	s.setupRoutes()
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ============================================================================
// ROUTES
// ============================================================================

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Auth endpoints
	s.router.HandleFunc("POST /auth/register", s.handleRegister)
	s.router.HandleFunc("POST /auth/login", s.handleLogin)

	// Chat endpoints (authenticated)
	s.router.Handle("GET /chats/init", s.authed(s.handleCreateChat))
	s.router.Handle("GET /chats/{$}", s.authed(s.handleListChats))
	s.router.Handle("GET /chats/{chatID}", s.authed(s.handleLoadChat))
	s.router.Handle("POST /chats/{chatID}/messages", s.authed(s.handleSendMessage))
	s.router.Handle("PATCH /chats/{chatID}/messages/{interactionID}", s.authed(s.handleEditMessage))
	s.router.Handle("DELETE /chats/{chatID}/messages/{interactionID}", s.authed(s.handleDeleteMessage))

	// Health endpoint
	s.router.HandleFunc("GET /health", s.handleHealth)
}

// Handler returns the fully assembled handler, middleware included.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(),
		LoggingMiddleware(log.Default()),
		RateLimitMiddleware(DefaultRateLimiter()),
	)(s.router)
}

// ============================================================================
// WIRE TYPES
// ============================================================================

// credentialsRequest is the body for register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse is returned by the auth endpoints.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// interactionPayload is the wire representation of one interaction.
type interactionPayload struct {
	InteractionID string    `json:"interaction_id"`
	Index         int       `json:"index"`
	Message       *string   `json:"message"`
	Response      string    `json:"response"`
	Suggestions   []string  `json:"suggestions,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// chatCreatedResponse is returned by GET /chats/init.
type chatCreatedResponse struct {
	ChatID      string             `json:"chat_id"`
	ChatName    string             `json:"chat_name"`
	Interaction interactionPayload `json:"interaction"`
}

// chatSummary is one element of the GET /chats/ listing.
type chatSummary struct {
	ChatID   string `json:"chat_id"`
	ChatName string `json:"chat_name"`
}

// chatDetailResponse is returned by GET /chats/{chatID}.
type chatDetailResponse struct {
	ChatID       string               `json:"chat_id"`
	ChatName     string               `json:"chat_name"`
	Interactions []interactionPayload `json:"interactions"`
}

// messageRequest is the body for send and edit calls.
type messageRequest struct {
	Message string `json:"message"`
}

// toPayload converts a stored interaction to its wire form.
func toPayload(in storage.Interaction) interactionPayload {
	return interactionPayload{
		InteractionID: in.ID,
		Index:         in.Index,
		Message:       in.Message,
		Response:      in.Response,
		Suggestions:   in.Suggestions,
		Timestamp:     in.Timestamp,
	}
}

// toPayloads converts an ordered interaction sequence.
func toPayloads(interactions []storage.Interaction) []interactionPayload {
	payloads := make([]interactionPayload, len(interactions))
	for i, in := range interactions {
		payloads[i] = toPayload(in)
	}
	return payloads
}

// ============================================================================
// AUTHENTICATION
// ============================================================================

type contextKey string

// userKey carries the authenticated user through the request context.
const userKey contextKey = "user"

// authed wraps a handler with bearer-token authentication. The token's
// subject is resolved to a stored user, which the handler retrieves with
// requestUser.
func (s *Server) authed(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		username, err := s.tokens.Verify(token)
		if err != nil {
			log.Printf("AUTH_DENIED | ip=%s error=%v", clientIP(r), err)
			writeError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		user, err := s.store.UserByUsername(username)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// requestUser returns the user installed by the authed middleware.
func requestUser(r *http.Request) storage.User {
	user, _ := r.Context().Value(userKey).(storage.User)
	return user
}

// handleRegister handles POST /auth/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user, err := s.store.CreateUser(username, hash)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			writeError(w, http.StatusBadRequest, "Username already registered")
			return
		}
		s.internalError(w, "CreateUser", err)
		return
	}

	s.issueToken(w, user.Username)
}

// handleLogin handles POST /auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.store.UserByUsername(strings.TrimSpace(req.Username))
	if err != nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	s.issueToken(w, user.Username)
}

// issueToken signs a token for username and writes the auth response.
func (s *Server) issueToken(w http.ResponseWriter, username string) {
	token, err := s.tokens.Issue(username)
	if err != nil {
		s.internalError(w, "Issue", err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// ============================================================================
// CHAT HANDLERS
// ============================================================================

// handleCreateChat handles GET /chats/init?chat_name=NAME.
func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)

	name := strings.TrimSpace(r.URL.Query().Get("chat_name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "Chat name cannot be empty")
		return
	}
	if len(name) > MaxChatNameLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Chat name exceeds maximum length of %d", MaxChatNameLength))
		return
	}

	greeting, suggestions := s.bot.Greeting()
	chat, opening, err := s.store.CreateChat(user.ID, name, greeting, suggestions)
	if err != nil {
		s.internalError(w, "CreateChat", err)
		return
	}

	writeJSON(w, http.StatusOK, chatCreatedResponse{
		ChatID:      chat.ID,
		ChatName:    chat.Name,
		Interaction: toPayload(opening),
	})
}

// handleListChats handles GET /chats/.
func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	user := requestUser(r)

	chats, err := s.store.ListChats(user.ID)
	if err != nil {
		s.internalError(w, "ListChats", err)
		return
	}

	summaries := make([]chatSummary, len(chats))
	for i, c := range chats {
		summaries[i] = chatSummary{ChatID: c.ID, ChatName: c.Name}
	}
	writeJSON(w, http.StatusOK, summaries)
}

// handleLoadChat handles GET /chats/{chatID}.
func (s *Server) handleLoadChat(w http.ResponseWriter, r *http.Request) {
	chat, ok := s.ownedChat(w, r)
	if !ok {
		return
	}

	interactions, err := s.store.Interactions(chat.ID)
	if err != nil {
		s.internalError(w, "Interactions", err)
		return
	}

	writeJSON(w, http.StatusOK, chatDetailResponse{
		ChatID:       chat.ID,
		ChatName:     chat.Name,
		Interactions: toPayloads(interactions),
	})
}

// ============================================================================
// MESSAGE HANDLERS
// ============================================================================

// handleSendMessage handles POST /chats/{chatID}/messages.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	chat, ok := s.ownedChat(w, r)
	if !ok {
		return
	}

	message, ok := decodeMessage(w, r)
	if !ok {
		return
	}

	response, suggestions := s.bot.Reply(message)
	interaction, err := s.store.AddInteraction(chat.ID, message, response, suggestions)
	if err != nil {
		s.internalError(w, "AddInteraction", err)
		return
	}

	writeJSON(w, http.StatusOK, toPayload(interaction))
}

// handleEditMessage handles PATCH /chats/{chatID}/messages/{interactionID}.
//
// The interaction's message is rewritten, a fresh response is generated,
// and every later interaction is discarded. The full remaining sequence
// comes back so the client can adopt it wholesale.
func (s *Server) handleEditMessage(w http.ResponseWriter, r *http.Request) {
	chat, ok := s.ownedChat(w, r)
	if !ok {
		return
	}

	target, ok := s.chatInteraction(w, r, chat)
	if !ok {
		return
	}

	if target.Message == nil {
		writeError(w, http.StatusBadRequest, "The opening greeting cannot be edited")
		return
	}

	message, ok := decodeMessage(w, r)
	if !ok {
		return
	}

	response, suggestions := s.bot.Reply(message)
	remaining, err := s.store.EditInteraction(target.ID, message, response, suggestions)
	if err != nil {
		s.internalError(w, "EditInteraction", err)
		return
	}

	writeJSON(w, http.StatusOK, toPayloads(remaining))
}

// handleDeleteMessage handles DELETE /chats/{chatID}/messages/{interactionID}.
//
// The interaction and everything after it are discarded; the remaining
// sequence comes back.
func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	chat, ok := s.ownedChat(w, r)
	if !ok {
		return
	}

	target, ok := s.chatInteraction(w, r, chat)
	if !ok {
		return
	}

	remaining, err := s.store.DeleteInteraction(target.ID)
	if err != nil {
		s.internalError(w, "DeleteInteraction", err)
		return
	}

	writeJSON(w, http.StatusOK, toPayloads(remaining))
}

// ============================================================================
// HEALTH HANDLER
// ============================================================================

// healthResponse is the health check response.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// ============================================================================
// LOOKUP HELPERS
// ============================================================================

// ownedChat resolves the {chatID} path segment to a chat owned by the
// caller. Writes 404 for unknown chats and 403 for chats owned by someone
// else.
func (s *Server) ownedChat(w http.ResponseWriter, r *http.Request) (storage.Chat, bool) {
	chat, err := s.store.ChatByID(r.PathValue("chatID"))
	if err != nil {
		if errors.Is(err, storage.ErrChatNotFound) {
			writeError(w, http.StatusNotFound, "Chat not found")
		} else {
			s.internalError(w, "ChatByID", err)
		}
		return storage.Chat{}, false
	}

	if chat.UserID != requestUser(r).ID {
		writeError(w, http.StatusForbidden, "Not authorized to access this chat")
		return storage.Chat{}, false
	}

	return chat, true
}

// chatInteraction resolves the {interactionID} path segment within chat.
// An interaction ID from a different chat is a 404, not a cross-chat edit.
func (s *Server) chatInteraction(w http.ResponseWriter, r *http.Request, chat storage.Chat) (storage.Interaction, bool) {
	interactions, err := s.store.Interactions(chat.ID)
	if err != nil {
		s.internalError(w, "Interactions", err)
		return storage.Interaction{}, false
	}

	interactionID := r.PathValue("interactionID")
	for _, in := range interactions {
		if in.ID == interactionID {
			return in, true
		}
	}

	writeError(w, http.StatusNotFound, "Interaction not found")
	return storage.Interaction{}, false
}

// decodeMessage reads and validates the message body for send and edit.
func decodeMessage(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req messageRequest
	if !decodeBody(w, r, &req) {
		return "", false
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "Message cannot be empty")
		return "", false
	}
	if len(message) > MaxMessageLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Message exceeds maximum length of %d", MaxMessageLength))
		return "", false
	}

	return message, true
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("SERVER_START | addr=%s version=%s", s.addr, Version)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	log.Printf("SERVER_SHUTDOWN | starting graceful shutdown")
	return s.server.Shutdown(ctx)
}

// ============================================================================
// RESPONSE HELPERS
// ============================================================================

// decodeBody decodes the JSON request body into v, enforcing the size cap.
// Writes the error response itself and returns false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", MaxRequestBodySize))
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	return true
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes the service's error body: {"detail": "..."}.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// internalError logs the failure and returns a generic 500. Details stay
// in the server log, not the response.
func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	log.Printf("REQUEST_ERROR | op=%s error=%v", op, err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
