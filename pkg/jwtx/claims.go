package jwtx

import (
	"time"

	"github.com/aussiebroadwan/tasker/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL keeps access tokens short-lived; the bot refreshes
// them well before expiry.
const DefaultAccessTokenTTL = 5 * time.Minute

// Claims are the access-token claims minted by the API. Subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims

	// Username of the authenticated user, echoed for logging.
	Username string `json:"username,omitempty"`
}

// NewAccessClaims stamps claims for subject valid from now until now+ttl.
// The jti is a ULID so tokens minted in the same second still differ.
func NewAccessClaims(subject, username, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.NewAt(now).String(),
		},
		Username: username,
	}
}

// check applies the registered-claim rules. The issuer is compared only when
// one is expected; sub and exp are mandatory.
func (c *Claims) check(issuer string, now time.Time, leeway time.Duration) error {
	switch {
	case issuer != "" && c.Issuer != issuer:
		return ErrIssuer
	case c.Subject == "", c.ExpiresAt == nil:
		return ErrInvalidClaim
	case now.After(c.ExpiresAt.Add(leeway)):
		return ErrExpired
	case c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)):
		return ErrNotYetValid
	}
	return nil
}
