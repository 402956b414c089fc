package domain

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2 encoded, empty for users created by linking
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ExternalAccount binds a chat identity to a backend user.
type ExternalAccount struct {
	ID         string
	UserID     string
	ExternalID string
	ChatID     int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LinkUsername is the username given to a user created on first link.
func LinkUsername(externalID string) string {
	return "tg_" + externalID
}
