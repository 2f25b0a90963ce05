package api

import (
	"context"
	"net/http"

	"bookbnb/internal/domain"
	"bookbnb/internal/models"
)

// Login exchanges credentials for a token. Any non-2xx reply is an AuthError.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		endpoint:    "POST /auth/login",
		body:        req,
		credentials: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &domain.AuthError{Message: "Login response did not include a token"}
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/register",
		endpoint:    "POST /auth/register",
		body:        req,
		credentials: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &domain.AuthError{Message: "Registration response did not include a token"}
	}
	return &resp, nil
}

// Me returns the user the given token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, &domain.AuthError{Err: domain.ErrUnauthenticated}
	}
	var wrap struct {
		User models.User `json:"user"`
	}
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/auth/me",
		endpoint: "GET /auth/me",
		auth:     authRequired,
		token:    token,
	}, &wrap)
	if err != nil {
		return nil, err
	}
	return &wrap.User, nil
}
