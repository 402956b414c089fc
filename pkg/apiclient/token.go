package apiclient

import (
	"context"
	"errors"
	"net/http"
)

// Login exchanges service credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/token", LoginRequest{
		Username: username,
		Password: password,
	}, nil)
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return nil, err
	}
	if pair.Access == "" || pair.Refresh == "" {
		return nil, errors.New("login response missing tokens")
	}
	return &pair, nil
}

// Refresh mints a new access token from a refresh token.
func (c *Client) Refresh(ctx context.Context, refresh string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/token/refresh", RefreshRequest{Refresh: refresh}, nil)
	if err != nil {
		return "", err
	}

	var out RefreshResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	if out.Access == "" {
		return "", errors.New("refresh response missing access token")
	}
	return out.Access, nil
}

// Health calls GET /livez.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// Ready calls GET /readyz.
func (c *Client) Ready(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
