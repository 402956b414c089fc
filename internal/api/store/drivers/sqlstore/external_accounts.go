package sqlstore

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tasker/internal/api/domain"
)

type externalAccountsRepo struct {
	q querier
	d Dialect
}

func (r *externalAccountsRepo) GetByExternalID(ctx context.Context, externalID string) (domain.ExternalAccount, error) {
	var a domain.ExternalAccount
	err := r.q.QueryRowContext(ctx, r.d.Rebind(
		`SELECT id, user_id, external_id, chat_id, created_at, updated_at
		   FROM external_accounts WHERE external_id = ?`), externalID).
		Scan(&a.ID, &a.UserID, &a.ExternalID, &a.ChatID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.ExternalAccount{}, mapNotFound(err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (r *externalAccountsRepo) UpsertExternalAccount(ctx context.Context, a domain.ExternalAccount) error {
	now := dbTime(time.Now())
	_, err := r.q.ExecContext(ctx, r.d.Rebind(
		`INSERT INTO external_accounts (id, user_id, external_id, chat_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (external_id) DO UPDATE
		    SET user_id = excluded.user_id,
		        chat_id = excluded.chat_id,
		        updated_at = excluded.updated_at`),
		a.ID, a.UserID, a.ExternalID, a.ChatID, now, now,
	)
	return err
}
