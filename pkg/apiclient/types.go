package apiclient

import "time"

// Wire types shared by the API handlers and this client.

type LoginRequest struct {
	Username string `json:"username" example:"bot_service"`
	Password string `json:"password" example:"s3cret"`
}

// TokenPair is the Token Issuer login response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type StartLinkRequest struct {
	ExternalID string `json:"external_id" example:"123456789"`
}

type StartLinkResponse struct {
	Code      string    `json:"code" example:"9f86d081"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ConfirmLinkRequest struct {
	ExternalID string `json:"external_id" example:"123456789"`
	Code       string `json:"code" example:"9f86d081"`
	ChatID     int64  `json:"chat_id" example:"123456789"`
}

type ConfirmLinkResponse struct {
	Status string   `json:"status" example:"linked"`
	User   UserInfo `json:"user"`
}

type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database    string `json:"database"`
	ReplayStore string `json:"replay_store"`
}
