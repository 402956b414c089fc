// Package postgres is the PostgreSQL store driver, using pgx through
// database/sql. Link-code verification takes a row lock with FOR UPDATE.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tasker/internal/api/store/drivers/sqlstore"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const uniqueViolation = "23505"

var dialect = sqlstore.Dialect{
	Name:              "postgres",
	Numbered:          true,
	LockClause:        " FOR UPDATE",
	IsUniqueViolation: isUniqueViolation,
	Migrate:           migrateUp,
}

// NewStore connects to dsn (a postgres:// URL or key=value string) and
// checks the connection.
func NewStore(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return sqlstore.New(db, dialect), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
