package sqlstore

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/tasker/internal/api/store"
)

type txStore struct {
	tx *sql.Tx
	d  Dialect
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller ends the transaction and the DB stays open.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Users() store.Users { return &usersRepo{q: t.tx, d: t.d} }
func (t *txStore) ExternalAccounts() store.ExternalAccounts {
	return &externalAccountsRepo{q: t.tx, d: t.d}
}
func (t *txStore) LinkCodes() store.LinkCodes         { return &linkCodesRepo{q: t.tx, d: t.d} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{q: t.tx, d: t.d} }
