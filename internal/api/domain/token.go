package domain

import "time"

// TokenPair is what a login returns: a short-lived access JWT and an
// opaque refresh token.
type TokenPair struct {
	Access          string
	Refresh         string
	AccessExpiresAt time.Time
}

// RefreshToken is the stored record of an issued refresh token. Only the
// fingerprint of the opaque value is kept.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

func (t RefreshToken) ValidAt(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
