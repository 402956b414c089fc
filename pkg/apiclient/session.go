package apiclient

import (
	"context"
	"net/http"
)

// Session issues signed, bearer-authenticated calls. Obtain one from
// Client.Session.
type Session struct {
	client *Client
	tokens TokenSource
}

type invalidator interface {
	Invalidate(ctx context.Context) error
}

func (s *Session) doAuthRequest(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	token, err := s.tokens.EnsureAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.doRequest(ctx, method, path, payload, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		return nil, err
	}

	// A bearer rejection means the cached token is no good; the next call renews.
	if resp.StatusCode == http.StatusUnauthorized && resp.Header.Get("WWW-Authenticate") != "" {
		if inv, ok := s.tokens.(invalidator); ok {
			_ = inv.Invalidate(ctx)
		}
	}
	return resp, nil
}

// StartLink issues a one-time link code for externalID.
func (s *Session) StartLink(ctx context.Context, externalID string) (*StartLinkResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/api/link/start", StartLinkRequest{ExternalID: externalID})
	if err != nil {
		return nil, err
	}

	var out StartLinkResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmLink consumes code and binds externalID to its backend user.
// Link failures come back as an *APIError whose Code is one of the
// CodeLink* constants.
func (s *Session) ConfirmLink(ctx context.Context, externalID, code string, chatID int64) (*ConfirmLinkResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/api/link/confirm", ConfirmLinkRequest{
		ExternalID: externalID,
		Code:       code,
		ChatID:     chatID,
	})
	if err != nil {
		return nil, err
	}

	var out ConfirmLinkResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) WhoAmI(ctx context.Context) (*UserInfo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/whoami", nil)
	if err != nil {
		return nil, err
	}

	var out UserInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
