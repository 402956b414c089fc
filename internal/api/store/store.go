package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tasker/internal/api/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers (sqlite, postgres)
// implement it. Repositories hang off Store and Tx so a transaction can't be
// started from inside another.
type Store interface {
	Users() Users
	ExternalAccounts() ExternalAccounts
	LinkCodes() LinkCodes
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

type ExternalAccounts interface {
	GetByExternalID(ctx context.Context, externalID string) (domain.ExternalAccount, error)

	// UpsertExternalAccount inserts the account or, when external_id is
	// already bound, updates its user and chat id.
	UpsertExternalAccount(ctx context.Context, a domain.ExternalAccount) error
}

type LinkCodes interface {
	// CreateLinkCode returns ErrAlreadyExists when the code collides.
	CreateLinkCode(ctx context.Context, c domain.LinkCode) error

	GetLinkCode(ctx context.Context, code string) (domain.LinkCode, error)

	// GetLinkCodeForUpdate reads the row holding an exclusive lock on it
	// until the enclosing transaction ends. Only meaningful inside a Tx.
	GetLinkCodeForUpdate(ctx context.Context, code string) (domain.LinkCode, error)

	// ConsumeLinkCode sets used_at if it is still null and reports whether
	// it did.
	ConsumeLinkCode(ctx context.Context, code string, usedAt time.Time) (bool, error)

	// DeleteLinkCodesBefore removes codes that expired or were used before cutoff.
	DeleteLinkCodesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash looks a token up by its fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	RevokeRefreshToken(ctx context.Context, hash string) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error

	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}
