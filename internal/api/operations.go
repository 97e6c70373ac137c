package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/draftmill/draftmill-go/internal/models"
)

// LoginRequest carries credentials for token exchange.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the token + user record returned on successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// GenerateRequest asks the API to produce content for a prompt.
// RequestID is the idempotency key; reuse it across retries of the same
// logical request.
type GenerateRequest struct {
	Prompt    string `json:"prompt"`
	Format    string `json:"format,omitempty"`
	RequestID string `json:"-"`
}

// Login exchanges credentials for a session token and user record.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the account record for the current token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/v1/me", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Generate submits a content-generation request.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*models.Generation, error) {
	var out models.Generation
	if err := c.do(ctx, http.MethodPost, "/v1/generations", req.RequestID, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListGenerations returns the most recent generations, newest first.
func (c *Client) ListGenerations(ctx context.Context, limit int) ([]models.Generation, error) {
	path := "/v1/generations"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var out struct {
		Items []models.Generation `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
