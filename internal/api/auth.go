package api

import (
	"context"
	"net/http"

	"habitat/internal/models"
)

type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

// Login exchanges credentials for a bearer token. It is the only unauthenticated call.
func (a *AuthClient) Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := a.c.do(ctx, http.MethodPost, "/Auth/login", "", creds, &resp, "Login failed"); err != nil {
		return nil, err
	}
	return &resp, nil
}
