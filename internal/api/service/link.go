package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/tasker/internal/api/domain"
	"github.com/aussiebroadwan/tasker/internal/api/store"
	"github.com/aussiebroadwan/tasker/pkg/cryptox"
	"github.com/aussiebroadwan/tasker/pkg/idx"
	"github.com/aussiebroadwan/tasker/pkg/slogx"
)

const (
	DefaultLinkCodeTTL = 10 * time.Minute

	// maxCodeAttempts bounds retries when a freshly generated code collides.
	maxCodeAttempts = 3
)

// LinkService is the Link-Code Manager. It issues single-use codes for an
// external identity and consumes them to bind that identity to a user.
type LinkService struct {
	Store store.Store
	TTL   time.Duration

	// Generate returns a new code. Defaults to 8 random hex characters.
	Generate func() (string, error)
	Now      func() time.Time
}

// CreateFor issues a code for externalID valid for ttl, or the service TTL
// when ttl is zero. An identity may hold several outstanding codes.
func (s *LinkService) CreateFor(ctx context.Context, externalID string, ttl time.Duration) (domain.LinkCode, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return domain.LinkCode{}, fmt.Errorf("%w: external_id is required", ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = s.ttl()
	}

	now := s.now().UTC()
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return domain.LinkCode{}, err
		}

		lc := domain.LinkCode{
			Code:       code,
			ExternalID: externalID,
			ExpiresAt:  now.Add(ttl),
			CreatedAt:  now,
		}
		err = s.Store.LinkCodes().CreateLinkCode(ctx, lc)
		if err == nil {
			slogx.FromContext(ctx).Info("link code issued", "external_id", externalID, "expires_at", lc.ExpiresAt)
			return lc, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return domain.LinkCode{}, err
		}
		slogx.FromContext(ctx).Warn("link code collision", "attempt", attempt)
	}
	return domain.LinkCode{}, ErrCodeSpaceExhausted
}

// Verify checks code against externalID and marks it used. It must run in
// tx: the row stays locked until tx ends, so of two concurrent verifiers of
// one code exactly one succeeds and the other gets ErrAlreadyUsed.
func (s *LinkService) Verify(ctx context.Context, tx store.Tx, code, externalID string) (domain.LinkCode, error) {
	lc, err := tx.LinkCodes().GetLinkCodeForUpdate(ctx, normalizeCode(code))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.LinkCode{}, ErrCodeNotFound
		}
		return domain.LinkCode{}, err
	}

	now := s.now().UTC()
	switch {
	case lc.ExternalID != strings.TrimSpace(externalID):
		return domain.LinkCode{}, ErrIdentityMismatch
	case lc.Used():
		return domain.LinkCode{}, ErrAlreadyUsed
	case lc.ExpiredAt(now):
		return domain.LinkCode{}, ErrExpired
	}

	ok, err := tx.LinkCodes().ConsumeLinkCode(ctx, lc.Code, now)
	if err != nil {
		return domain.LinkCode{}, err
	}
	if !ok {
		return domain.LinkCode{}, ErrAlreadyUsed
	}
	lc.UsedAt = &now
	return lc, nil
}

// Confirm verifies code and binds externalID to its user in one
// transaction. The user tg_<externalID> is created on first link.
func (s *LinkService) Confirm(ctx context.Context, externalID, code string, chatID int64) (domain.User, error) {
	l := slogx.FromContext(ctx)
	externalID = strings.TrimSpace(externalID)
	if externalID == "" || strings.TrimSpace(code) == "" {
		return domain.User{}, fmt.Errorf("%w: external_id and code are required", ErrInvalidInput)
	}

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := s.Verify(ctx, tx, code, externalID); err != nil {
			return err
		}

		u, err := s.userFor(ctx, tx, externalID)
		if err != nil {
			return err
		}

		if err := tx.ExternalAccounts().UpsertExternalAccount(ctx, domain.ExternalAccount{
			ID:         idx.New().String(),
			UserID:     u.ID,
			ExternalID: externalID,
			ChatID:     chatID,
		}); err != nil {
			return fmt.Errorf("bind external account: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		if kind := LinkErrorKindOf(err); kind != "" {
			l.Warn("link confirm rejected", "external_id", externalID, "kind", kind)
		}
		return domain.User{}, err
	}

	l.Info("external account linked", "external_id", externalID, "user_id", user.ID)
	return user, nil
}

func (s *LinkService) userFor(ctx context.Context, tx store.Tx, externalID string) (domain.User, error) {
	username := domain.LinkUsername(externalID)

	u, err := tx.Users().GetUserByUsername(ctx, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	u = domain.User{ID: idx.New().String(), Username: username}
	if err := tx.Users().CreateUser(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("create linked user: %w", err)
	}
	return tx.Users().GetUserByID(ctx, u.ID)
}

func (s *LinkService) generate() (string, error) {
	if s.Generate != nil {
		return s.Generate()
	}
	return cryptox.GenerateHex(cryptox.LinkCodeSize)
}

func (s *LinkService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultLinkCodeTTL
}

func (s *LinkService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
