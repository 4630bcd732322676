// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists users, chats, and interactions for the
// conversation service in SQLite.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrUserExists          = errors.New("username already taken")
	ErrUserNotFound        = errors.New("user not found")
	ErrChatNotFound        = errors.New("chat not found")
	ErrInteractionNotFound = errors.New("interaction not found")
)

// =============================================================================
// TYPES
// =============================================================================

// User is a registered account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
}

// Chat is a conversation owned by one user.
type Chat struct {
	ID     string
	UserID string
	Name   string
}

// Interaction is one stored turn: an optional user message plus the
// assistant response. Message is nil only for the opening greeting.
type Interaction struct {
	ID          string
	ChatID      string
	Index       int
	Message     *string
	Response    string
	Suggestions []string
	Timestamp   time.Time
}

// =============================================================================
// STORE
// =============================================================================

// Store is the SQLite-backed repository. Safe for concurrent use;
// truncating mutations run in transactions.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for an ephemeral database in tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent request handlers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates the tables if they do not exist.
func (s *Store) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chats (
	id      TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id),
	name    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS interactions (
	id          TEXT PRIMARY KEY,
	chat_id     TEXT NOT NULL REFERENCES chats(id),
	idx         INTEGER NOT NULL,
	message     TEXT,
	response    TEXT NOT NULL,
	suggestions TEXT NOT NULL DEFAULT '[]',
	timestamp   TIMESTAMP NOT NULL,
	UNIQUE (chat_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_chats_user ON chats(user_id);
CREATE INDEX IF NOT EXISTS idx_interactions_chat ON interactions(chat_id, idx);
`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// USERS
// =============================================================================

// CreateUser registers a new account.
func (s *Store) CreateUser(username, passwordHash string) (User, error) {
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
	}

	_, err := s.db.Exec(
		`INSERT INTO users (id, username, password_hash) VALUES (?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, err
	}
	return user, nil
}

// UserByUsername looks up an account.
func (s *Store) UserByUsername(username string) (User, error) {
	var user User
	err := s.db.QueryRow(
		`SELECT id, username, password_hash FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// =============================================================================
// CHATS
// =============================================================================

// CreateChat creates a chat with its opening greeting interaction at
// index 0.
func (s *Store) CreateChat(userID, name, greeting string, suggestions []string) (Chat, Interaction, error) {
	chat := Chat{ID: uuid.NewString(), UserID: userID, Name: name}
	opening := Interaction{
		ID:          uuid.NewString(),
		ChatID:      chat.ID,
		Index:       0,
		Message:     nil,
		Response:    greeting,
		Suggestions: suggestions,
		Timestamp:   time.Now().UTC(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Chat{}, Interaction{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO chats (id, user_id, name) VALUES (?, ?, ?)`,
		chat.ID, chat.UserID, chat.Name,
	); err != nil {
		return Chat{}, Interaction{}, err
	}
	if err := insertInteraction(tx, opening); err != nil {
		return Chat{}, Interaction{}, err
	}
	if err := tx.Commit(); err != nil {
		return Chat{}, Interaction{}, err
	}
	return chat, opening, nil
}

// ChatByID returns a chat's metadata.
func (s *Store) ChatByID(chatID string) (Chat, error) {
	var chat Chat
	err := s.db.QueryRow(
		`SELECT id, user_id, name FROM chats WHERE id = ?`, chatID,
	).Scan(&chat.ID, &chat.UserID, &chat.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Chat{}, ErrChatNotFound
	}
	if err != nil {
		return Chat{}, err
	}
	return chat, nil
}

// ListChats returns the chats owned by a user.
func (s *Store) ListChats(userID string) ([]Chat, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, name FROM chats WHERE user_id = ? ORDER BY rowid`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := make([]Chat, 0)
	for rows.Next() {
		var chat Chat
		if err := rows.Scan(&chat.ID, &chat.UserID, &chat.Name); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

// Interactions returns a chat's interactions in index order.
func (s *Store) Interactions(chatID string) ([]Interaction, error) {
	if _, err := s.ChatByID(chatID); err != nil {
		return nil, err
	}
	return queryInteractions(s.db, chatID)
}

// =============================================================================
// INTERACTIONS
// =============================================================================

// AddInteraction appends a user/assistant exchange at the next index.
func (s *Store) AddInteraction(chatID, message, response string, suggestions []string) (Interaction, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Interaction{}, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM chats WHERE id = ?`, chatID).Scan(&exists); err != nil {
		return Interaction{}, err
	}
	if exists == 0 {
		return Interaction{}, ErrChatNotFound
	}

	var next int
	if err := tx.QueryRow(
		`SELECT COALESCE(MAX(idx) + 1, 0) FROM interactions WHERE chat_id = ?`, chatID,
	).Scan(&next); err != nil {
		return Interaction{}, err
	}

	msg := message
	interaction := Interaction{
		ID:          uuid.NewString(),
		ChatID:      chatID,
		Index:       next,
		Message:     &msg,
		Response:    response,
		Suggestions: suggestions,
		Timestamp:   time.Now().UTC(),
	}
	if err := insertInteraction(tx, interaction); err != nil {
		return Interaction{}, err
	}
	if err := tx.Commit(); err != nil {
		return Interaction{}, err
	}
	return interaction, nil
}

// EditInteraction rewrites an interaction in place, deletes every
// interaction after it, and returns the complete remaining sequence.
func (s *Store) EditInteraction(interactionID, newMessage, newResponse string, suggestions []string) ([]Interaction, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	chatID, idx, err := locateInteraction(tx, interactionID)
	if err != nil {
		return nil, err
	}

	encoded, err := encodeSuggestions(suggestions)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		`UPDATE interactions SET message = ?, response = ?, suggestions = ?, timestamp = ? WHERE id = ?`,
		newMessage, newResponse, encoded, time.Now().UTC(), interactionID,
	); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		`DELETE FROM interactions WHERE chat_id = ? AND idx > ?`, chatID, idx,
	); err != nil {
		return nil, err
	}

	remaining, err := queryInteractions(tx, chatID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return remaining, nil
}

// DeleteInteraction removes an interaction and everything after it,
// returning the complete remaining sequence.
func (s *Store) DeleteInteraction(interactionID string) ([]Interaction, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	chatID, idx, err := locateInteraction(tx, interactionID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		`DELETE FROM interactions WHERE chat_id = ? AND idx >= ?`, chatID, idx,
	); err != nil {
		return nil, err
	}

	remaining, err := queryInteractions(tx, chatID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return remaining, nil
}

// =============================================================================
// QUERY HELPERS
// =============================================================================

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func insertInteraction(q querier, i Interaction) error {
	encoded, err := encodeSuggestions(i.Suggestions)
	if err != nil {
		return err
	}

	var msg any
	if i.Message != nil {
		msg = *i.Message
	}
	_, err = q.Exec(
		`INSERT INTO interactions (id, chat_id, idx, message, response, suggestions, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.ChatID, i.Index, msg, i.Response, encoded, i.Timestamp,
	)
	return err
}

func locateInteraction(q querier, interactionID string) (chatID string, idx int, err error) {
	err = q.QueryRow(
		`SELECT chat_id, idx FROM interactions WHERE id = ?`, interactionID,
	).Scan(&chatID, &idx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, ErrInteractionNotFound
	}
	return chatID, idx, err
}

func queryInteractions(q querier, chatID string) ([]Interaction, error) {
	rows, err := q.Query(
		`SELECT id, chat_id, idx, message, response, suggestions, timestamp
		 FROM interactions WHERE chat_id = ? ORDER BY idx`, chatID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interactions := make([]Interaction, 0)
	for rows.Next() {
		var (
			i       Interaction
			msg     sql.NullString
			encoded string
		)
		if err := rows.Scan(&i.ID, &i.ChatID, &i.Index, &msg, &i.Response, &encoded, &i.Timestamp); err != nil {
			return nil, err
		}
		if msg.Valid {
			text := msg.String
			i.Message = &text
		}
		if i.Suggestions, err = decodeSuggestions(encoded); err != nil {
			return nil, err
		}
		interactions = append(interactions, i)
	}
	return interactions, rows.Err()
}

// Suggestions are stored as a JSON array in a text column.
func encodeSuggestions(s []string) (string, error) {
	if s == nil {
		s = []string{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeSuggestions(encoded string) ([]string, error) {
	if encoded == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(encoded), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// isUniqueViolation detects a UNIQUE constraint failure without
// depending on driver error codes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}
