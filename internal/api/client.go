// Copyright (c) 2024-2025 Abirami Senthil
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the chatverse conversation
// service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Abirami-Senthil/chatverse/internal/model"
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// RemoteError is a transport or service failure. Status is the HTTP-style
// status code; 0 means the request never reached the service.
type RemoteError struct {
	Status  int
	Message string
	Cause   error
}

func (e *RemoteError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is a service 404.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}

// IsUnauthorized reports whether err is a service 401.
func IsUnauthorized(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == http.StatusUnauthorized
}

// =============================================================================
// SERVICE INTERFACE
// =============================================================================

// Service is the surface of the remote conversation service the client
// core consumes. The session depends on this interface rather than the
// concrete client so tests can substitute a fake.
type Service interface {
	CreateConversation(ctx context.Context, name string) (model.Conversation, error)
	ListConversations(ctx context.Context) ([]model.ConversationMeta, error)
	LoadConversation(ctx context.Context, conversationID string) (model.Conversation, error)
	SendMessage(ctx context.Context, conversationID, text string) (model.Turn, error)
	EditMessage(ctx context.Context, conversationID, turnID, newText string) ([]model.Turn, error)
	DeleteMessage(ctx context.Context, conversationID, turnID string) ([]model.Turn, error)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the API client.
type ClientConfig struct {
	// BaseURL is the conversation service base URL
	// (default: http://127.0.0.1:8990).
	BaseURL string

	// Token is the bearer token obtained from Login or Register.
	Token string

	// Timeout for requests (default: 30s).
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:8990",
		Timeout: 30 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chatverse conversation service over HTTP. It holds
// the authenticated token explicitly; there is no package-level client
// state. Safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates an API client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates an API client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8990"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// SetToken installs the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.config.Token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.config.Token
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

// Register creates a new account and returns its access token. The token
// is also installed on the client.
func (c *Client) Register(ctx context.Context, username, password string) (*TokenResponse, error) {
	return c.authenticate(ctx, "/auth/register", username, password)
}

// Login authenticates an existing account and returns its access token.
// The token is also installed on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	return c.authenticate(ctx, "/auth/login", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (*TokenResponse, error) {
	var token TokenResponse
	err := c.do(ctx, http.MethodPost, path, credentialsRequest{
		Username: username,
		Password: password,
	}, &token)
	if err != nil {
		return nil, err
	}
	c.config.Token = token.AccessToken
	return &token, nil
}

// =============================================================================
// CONVERSATION OPERATIONS
// =============================================================================

// CreateConversation allocates a new conversation server-side and returns
// it with its single opening turn.
func (c *Client) CreateConversation(ctx context.Context, name string) (model.Conversation, error) {
	path := "/chats/init?chat_name=" + url.QueryEscape(name)

	var resp createChatResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return model.Conversation{}, err
	}

	return model.Conversation{
		ID:    resp.ChatID,
		Name:  resp.ChatName,
		Turns: []model.Turn{resp.Interaction.ToTurn()},
	}, nil
}

// ListConversations returns the metadata of every conversation the
// authenticated user owns.
func (c *Client) ListConversations(ctx context.Context) ([]model.ConversationMeta, error) {
	var resp []chatSummary
	if err := c.do(ctx, http.MethodGet, "/chats/", nil, &resp); err != nil {
		return nil, err
	}

	metas := make([]model.ConversationMeta, len(resp))
	for i, s := range resp {
		metas[i] = model.ConversationMeta{ID: s.ChatID, Name: s.ChatName}
	}
	return metas, nil
}

// LoadConversation fetches a conversation's complete turn sequence.
func (c *Client) LoadConversation(ctx context.Context, conversationID string) (model.Conversation, error) {
	var resp chatResponse
	if err := c.do(ctx, http.MethodGet, "/chats/"+url.PathEscape(conversationID), nil, &resp); err != nil {
		return model.Conversation{}, err
	}

	return model.Conversation{
		ID:    resp.ChatID,
		Name:  resp.ChatName,
		Turns: toTurns(resp.Interactions),
	}, nil
}

// SendMessage appends a user message and returns the newly produced turn.
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (model.Turn, error) {
	path := "/chats/" + url.PathEscape(conversationID) + "/messages"

	var resp Interaction
	if err := c.do(ctx, http.MethodPost, path, messageRequest{Message: text}, &resp); err != nil {
		return model.Turn{}, err
	}
	return resp.ToTurn(), nil
}

// EditMessage rewrites a turn's user message. The service regenerates the
// response, discards everything after the edited turn, and returns the
// complete remaining sequence.
func (c *Client) EditMessage(ctx context.Context, conversationID, turnID, newText string) ([]model.Turn, error) {
	path := "/chats/" + url.PathEscape(conversationID) + "/messages/" + url.PathEscape(turnID)

	var resp []Interaction
	if err := c.do(ctx, http.MethodPatch, path, messageRequest{Message: newText}, &resp); err != nil {
		return nil, err
	}
	return toTurns(resp), nil
}

// DeleteMessage removes a turn and everything after it, returning the
// complete remaining sequence.
func (c *Client) DeleteMessage(ctx context.Context, conversationID, turnID string) ([]model.Turn, error) {
	path := "/chats/" + url.PathEscape(conversationID) + "/messages/" + url.PathEscape(turnID)

	var resp []Interaction
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return nil, err
	}
	return toTurns(resp), nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do issues one request and decodes the JSON response into out. Non-2xx
// responses become *RemoteError with the service's detail message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &RemoteError{Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return &RemoteError{Message: "failed to create request", Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return &RemoteError{Message: "request cancelled or timed out", Cause: err}
		}
		return &RemoteError{Message: "service unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Detail != "" {
			return &RemoteError{Status: resp.StatusCode, Message: errResp.Detail}
		}
		return &RemoteError{Status: resp.StatusCode, Message: "request failed: " + resp.Status}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Status: resp.StatusCode, Message: "failed to decode response", Cause: err}
	}
	return nil
}
