package sqlstore

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tasker/internal/api/domain"
	"github.com/aussiebroadwan/tasker/internal/api/store"
)

type usersRepo struct {
	q querier
	d Dialect
}

const userColumns = `id, username, password_hash, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *usersRepo) get(ctx context.Context, query string, arg any) (domain.User, error) {
	var u domain.User
	err := r.q.QueryRowContext(ctx, r.d.Rebind(query), arg).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := dbTime(time.Now())
	_, err := r.q.ExecContext(ctx, r.d.Rebind(
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?)`),
		u.ID, u.Username, u.PasswordHash, now, now,
	)
	if r.d.uniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	res, err := r.q.ExecContext(ctx, r.d.Rebind(
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`),
		hash, dbTime(time.Now()), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}
