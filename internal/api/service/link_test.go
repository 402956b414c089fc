package service_test

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/tasker/internal/api/domain"
	"github.com/aussiebroadwan/tasker/internal/api/service"
	"github.com/aussiebroadwan/tasker/internal/api/store"
	"github.com/stretchr/testify/require"
)

var hexCode = regexp.MustCompile(`^[0-9a-f]{8}$`)

func TestLinkCreateFor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := &service.LinkService{Store: newTestStore(t), Now: func() time.Time { return now }}

	lc, err := svc.CreateFor(ctx, "123456789", 0)
	require.NoError(t, err)
	require.Regexp(t, hexCode, lc.Code)
	require.Equal(t, now.Add(service.DefaultLinkCodeTTL), lc.ExpiresAt)
	require.Nil(t, lc.UsedAt)

	// Several outstanding codes per identity are fine.
	lc2, err := svc.CreateFor(ctx, "123456789", 5*time.Minute)
	require.NoError(t, err)
	require.NotEqual(t, lc.Code, lc2.Code)
	require.Equal(t, now.Add(5*time.Minute), lc2.ExpiresAt)

	_, err = svc.CreateFor(ctx, "  ", 0)
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestLinkCreateForRetriesCollisions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	codes := []string{"aaaaaaaa", "aaaaaaaa", "bbbbbbbb"}
	var i int
	svc := &service.LinkService{
		Store: newTestStore(t),
		Generate: func() (string, error) {
			c := codes[i]
			i++
			return c, nil
		},
	}

	first, err := svc.CreateFor(ctx, "1", 0)
	require.NoError(t, err)
	require.Equal(t, "aaaaaaaa", first.Code)

	second, err := svc.CreateFor(ctx, "2", 0)
	require.NoError(t, err)
	require.Equal(t, "bbbbbbbb", second.Code)

	always := &service.LinkService{
		Store:    svc.Store,
		Generate: func() (string, error) { return "aaaaaaaa", nil },
	}
	_, err = always.CreateFor(ctx, "3", 0)
	require.ErrorIs(t, err, service.ErrCodeSpaceExhausted)
}

func TestLinkConfirm(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	svc := &service.LinkService{Store: s}

	lc, err := svc.CreateFor(ctx, "42", 0)
	require.NoError(t, err)

	u, err := svc.Confirm(ctx, "42", lc.Code, 4242)
	require.NoError(t, err)
	require.Equal(t, "tg_42", u.Username)

	acc, err := s.ExternalAccounts().GetByExternalID(ctx, "42")
	require.NoError(t, err)
	require.Equal(t, u.ID, acc.UserID)
	require.EqualValues(t, 4242, acc.ChatID)

	stored, err := s.LinkCodes().GetLinkCode(ctx, lc.Code)
	require.NoError(t, err)
	require.NotNil(t, stored.UsedAt)

	// Same code again.
	_, err = svc.Confirm(ctx, "42", lc.Code, 4242)
	require.ErrorIs(t, err, service.ErrAlreadyUsed)

	// A second link for the same identity reuses the user and updates the chat.
	lc2, err := svc.CreateFor(ctx, "42", 0)
	require.NoError(t, err)
	u2, err := svc.Confirm(ctx, "42", lc2.Code, 9999)
	require.NoError(t, err)
	require.Equal(t, u.ID, u2.ID)

	acc, err = s.ExternalAccounts().GetByExternalID(ctx, "42")
	require.NoError(t, err)
	require.EqualValues(t, 9999, acc.ChatID)
}

func TestLinkConfirmErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	now := time.Now().UTC()
	clock := func() time.Time { return now }
	svc := &service.LinkService{Store: s, Now: clock}

	t.Run("not found", func(t *testing.T) {
		_, err := svc.Confirm(ctx, "42", "00000000", 1)
		require.ErrorIs(t, err, service.ErrCodeNotFound)
		require.Equal(t, service.LinkCodeNotFound, service.LinkErrorKindOf(err))
	})

	t.Run("identity mismatch does not consume", func(t *testing.T) {
		lc, err := svc.CreateFor(ctx, "owner", 0)
		require.NoError(t, err)

		_, err = svc.Confirm(ctx, "intruder", lc.Code, 1)
		require.ErrorIs(t, err, service.ErrIdentityMismatch)

		stored, err := s.LinkCodes().GetLinkCode(ctx, lc.Code)
		require.NoError(t, err)
		require.Nil(t, stored.UsedAt)

		_, err = svc.Confirm(ctx, "owner", lc.Code, 1)
		require.NoError(t, err)
	})

	t.Run("expired even if never used", func(t *testing.T) {
		lc, err := svc.CreateFor(ctx, "late", time.Minute)
		require.NoError(t, err)

		later := &service.LinkService{Store: s, Now: func() time.Time { return now.Add(time.Minute) }}
		_, err = later.Confirm(ctx, "late", lc.Code, 1)
		require.ErrorIs(t, err, service.ErrExpired)

		stored, err := s.LinkCodes().GetLinkCode(ctx, lc.Code)
		require.NoError(t, err)
		require.Nil(t, stored.UsedAt)
	})

	t.Run("code is case and space insensitive", func(t *testing.T) {
		require.NoError(t, s.LinkCodes().CreateLinkCode(ctx, domain.LinkCode{
			Code: "abcdef12", ExternalID: "case", ExpiresAt: now.Add(time.Minute), CreatedAt: now,
		}))
		_, err := svc.Confirm(ctx, "case", " ABCDEF12 ", 1)
		require.NoError(t, err)
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := svc.Confirm(ctx, "", "abc", 1)
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestLinkConcurrentVerify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)
	svc := &service.LinkService{Store: s}

	lc, err := svc.CreateFor(ctx, "race", 0)
	require.NoError(t, err)

	const racers = 2
	var wg sync.WaitGroup
	errs := make(chan error, racers)
	start := make(chan struct{})
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs <- s.WithTx(ctx, func(tx store.Tx) error {
				_, err := svc.Verify(ctx, tx, lc.Code, "race")
				return err
			})
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	var ok, used int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case service.LinkErrorKindOf(err) == service.LinkAlreadyUsed:
			used++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, used)
}

func TestLinkErrorIs(t *testing.T) {
	t.Parallel()
	err := &service.LinkError{Kind: service.LinkExpired, Message: "custom"}
	require.ErrorIs(t, err, service.ErrExpired)
	require.NotErrorIs(t, err, service.ErrAlreadyUsed)
	require.Equal(t, service.LinkExpired, service.LinkErrorKindOf(err))
	require.Empty(t, service.LinkErrorKindOf(service.ErrInvalidInput))
}
