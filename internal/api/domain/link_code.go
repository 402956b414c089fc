package domain

import "time"

// LinkCode is a single-use code that lets an external identity bind itself
// to a backend account. Expiry is checked lazily when the code is verified.
type LinkCode struct {
	Code       string
	ExternalID string
	ExpiresAt  time.Time
	UsedAt     *time.Time
	CreatedAt  time.Time
}

func (c LinkCode) Used() bool { return c.UsedAt != nil }

// ExpiredAt reports whether the code is no longer valid at now.
func (c LinkCode) ExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
