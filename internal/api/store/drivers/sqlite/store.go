// Package sqlite is the default store driver, backed by modernc.org/sqlite.
package sqlite

import (
	"database/sql"
	"errors"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/tasker/internal/api/store/drivers/sqlstore"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLite has no row locks. Every read/write transaction takes the database
// write lock up front (_txlock=immediate), so a locking read needs no
// extra clause.
var dialect = sqlstore.Dialect{
	Name:              "sqlite",
	IsUniqueViolation: isUniqueViolation,
	Migrate:           migrateUp,
}

// DSN builds a connection string for the database file at path with the
// pragmas the store relies on.
func DSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// NewStore opens the database at dsn. A bare file path is passed through DSN.
func NewStore(dsn string) (*sqlstore.Store, error) {
	db, err := sql.Open("sqlite", DSN(dsn))
	if err != nil {
		return nil, err
	}
	return sqlstore.New(db, dialect), nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
