// Package storetest is a conformance suite run against every store driver.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/tasker/internal/api/domain"
	"github.com/aussiebroadwan/tasker/internal/api/store"
	"github.com/aussiebroadwan/tasker/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Run exercises s. The store must be migrated and empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		u := domain.User{ID: idx.New().String(), Username: "alice", PasswordHash: "hash"}
		require.NoError(t, s.Users().CreateUser(ctx, u))
		require.ErrorIs(t, s.Users().CreateUser(ctx, domain.User{ID: idx.New().String(), Username: "alice"}), store.ErrAlreadyExists)

		got, err := s.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.False(t, got.CreatedAt.IsZero())

		require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "hash2"))
		got, err = s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "hash2", got.PasswordHash)

		_, err = s.Users().GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, "missing", "x"), store.ErrNotFound)
	})

	t.Run("external accounts upsert", func(t *testing.T) {
		u1 := createUser(t, s, "ext-user-1")
		u2 := createUser(t, s, "ext-user-2")

		require.NoError(t, s.ExternalAccounts().UpsertExternalAccount(ctx, domain.ExternalAccount{
			ID: idx.New().String(), UserID: u1.ID, ExternalID: "555", ChatID: 1,
		}))
		require.NoError(t, s.ExternalAccounts().UpsertExternalAccount(ctx, domain.ExternalAccount{
			ID: idx.New().String(), UserID: u2.ID, ExternalID: "555", ChatID: 2,
		}))

		a, err := s.ExternalAccounts().GetByExternalID(ctx, "555")
		require.NoError(t, err)
		require.Equal(t, u2.ID, a.UserID)
		require.EqualValues(t, 2, a.ChatID)

		_, err = s.ExternalAccounts().GetByExternalID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("link codes", func(t *testing.T) {
		now := time.Now().UTC()
		lc := domain.LinkCode{Code: "a1b2c3d4", ExternalID: "42", ExpiresAt: now.Add(10 * time.Minute), CreatedAt: now}
		require.NoError(t, s.LinkCodes().CreateLinkCode(ctx, lc))
		require.ErrorIs(t, s.LinkCodes().CreateLinkCode(ctx, lc), store.ErrAlreadyExists)

		got, err := s.LinkCodes().GetLinkCode(ctx, "a1b2c3d4")
		require.NoError(t, err)
		require.Equal(t, "42", got.ExternalID)
		require.Nil(t, got.UsedAt)
		require.WithinDuration(t, lc.ExpiresAt, got.ExpiresAt, time.Millisecond)

		ok, err := s.LinkCodes().ConsumeLinkCode(ctx, "a1b2c3d4", now)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.LinkCodes().ConsumeLinkCode(ctx, "a1b2c3d4", now)
		require.NoError(t, err)
		require.False(t, ok)

		got, err = s.LinkCodes().GetLinkCode(ctx, "a1b2c3d4")
		require.NoError(t, err)
		require.NotNil(t, got.UsedAt)

		_, err = s.LinkCodes().GetLinkCode(ctx, "ffffffff")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("locking read serializes transactions", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, s.LinkCodes().CreateLinkCode(ctx, domain.LinkCode{
			Code: "0badc0de", ExternalID: "7", ExpiresAt: now.Add(time.Minute), CreatedAt: now,
		}))

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			consumed int
			sawUsed  int
		)
		errs := make(chan error, 2)
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.WithTx(ctx, func(tx store.Tx) error {
					lc, err := tx.LinkCodes().GetLinkCodeForUpdate(ctx, "0badc0de")
					if err != nil {
						return err
					}
					if lc.Used() {
						mu.Lock()
						sawUsed++
						mu.Unlock()
						return nil
					}
					time.Sleep(50 * time.Millisecond)
					ok, err := tx.LinkCodes().ConsumeLinkCode(ctx, lc.Code, time.Now())
					if err != nil {
						return err
					}
					if !ok {
						return errors.New("consumed concurrently")
					}
					mu.Lock()
					consumed++
					mu.Unlock()
					return nil
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
		require.Equal(t, 1, consumed)
		require.Equal(t, 1, sawUsed)
	})

	t.Run("rollback discards writes", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, domain.User{ID: idx.New().String(), Username: "ghost"}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = s.Users().GetUserByUsername(ctx, "ghost")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("refresh tokens", func(t *testing.T) {
		u := createUser(t, s, "refresh-user")
		now := time.Now().UTC()

		live := domain.RefreshToken{ID: idx.New().String(), UserID: u.ID, TokenHash: "fp-live", ExpiresAt: now.Add(time.Hour)}
		dead := domain.RefreshToken{ID: idx.New().String(), UserID: u.ID, TokenHash: "fp-dead", ExpiresAt: now.Add(-time.Hour)}
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, live))
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, dead))

		got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "fp-live")
		require.NoError(t, err)
		require.True(t, got.ValidAt(now))

		n, err := s.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, "fp-live"))
		got, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "fp-live")
		require.NoError(t, err)
		require.True(t, got.Revoked)

		require.ErrorIs(t, s.RefreshTokens().RevokeRefreshToken(ctx, "fp-missing"), store.ErrNotFound)
	})

	t.Run("link code housekeeping", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, s.LinkCodes().CreateLinkCode(ctx, domain.LinkCode{
			Code: "0ld0ld00", ExternalID: "1", ExpiresAt: now.Add(-48 * time.Hour), CreatedAt: now.Add(-49 * time.Hour),
		}))
		require.NoError(t, s.LinkCodes().CreateLinkCode(ctx, domain.LinkCode{
			Code: "fre5h000", ExternalID: "1", ExpiresAt: now.Add(time.Hour), CreatedAt: now,
		}))

		_, err := s.LinkCodes().DeleteLinkCodesBefore(ctx, now.Add(-24*time.Hour))
		require.NoError(t, err)

		_, err = s.LinkCodes().GetLinkCode(ctx, "0ld0ld00")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.LinkCodes().GetLinkCode(ctx, "fre5h000")
		require.NoError(t, err)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
	})
}

func createUser(t *testing.T, s store.Store, username string) domain.User {
	t.Helper()
	u := domain.User{ID: idx.New().String(), Username: username}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}
