package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tasker/internal/api/domain"
	"github.com/aussiebroadwan/tasker/internal/api/store"
)

type linkCodesRepo struct {
	q querier
	d Dialect
}

const linkCodeSelect = `SELECT code, external_id, expires_at, used_at, created_at FROM link_codes WHERE code = ?`

func (r *linkCodesRepo) CreateLinkCode(ctx context.Context, c domain.LinkCode) error {
	_, err := r.q.ExecContext(ctx, r.d.Rebind(
		`INSERT INTO link_codes (code, external_id, expires_at, created_at) VALUES (?, ?, ?, ?)`),
		c.Code, c.ExternalID, dbTime(c.ExpiresAt), dbTime(c.CreatedAt),
	)
	if r.d.uniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *linkCodesRepo) GetLinkCode(ctx context.Context, code string) (domain.LinkCode, error) {
	return r.get(ctx, linkCodeSelect, code)
}

func (r *linkCodesRepo) GetLinkCodeForUpdate(ctx context.Context, code string) (domain.LinkCode, error) {
	return r.get(ctx, linkCodeSelect+r.d.LockClause, code)
}

func (r *linkCodesRepo) get(ctx context.Context, query, code string) (domain.LinkCode, error) {
	var (
		c      domain.LinkCode
		usedAt sql.NullTime
	)
	err := r.q.QueryRowContext(ctx, r.d.Rebind(query), code).
		Scan(&c.Code, &c.ExternalID, &c.ExpiresAt, &usedAt, &c.CreatedAt)
	if err != nil {
		return domain.LinkCode{}, mapNotFound(err)
	}
	c.ExpiresAt = c.ExpiresAt.UTC()
	c.CreatedAt = c.CreatedAt.UTC()
	c.UsedAt = mapNullTimePtr(usedAt)
	return c, nil
}

func (r *linkCodesRepo) ConsumeLinkCode(ctx context.Context, code string, usedAt time.Time) (bool, error) {
	res, err := r.q.ExecContext(ctx, r.d.Rebind(
		`UPDATE link_codes SET used_at = ? WHERE code = ? AND used_at IS NULL`),
		dbTime(usedAt), code,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *linkCodesRepo) DeleteLinkCodesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoff = dbTime(cutoff)
	res, err := r.q.ExecContext(ctx, r.d.Rebind(
		`DELETE FROM link_codes WHERE expires_at < ? OR used_at < ?`),
		cutoff, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
