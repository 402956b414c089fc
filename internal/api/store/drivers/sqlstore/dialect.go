// Package sqlstore implements store.Store on database/sql. The sqlite and
// postgres drivers supply a Dialect for the few places they differ.
package sqlstore

import (
	"database/sql"
	"strconv"
	"strings"
)

type Dialect struct {
	Name string

	// Numbered rewrites "?" placeholders to "$1", "$2", ...
	Numbered bool

	// LockClause is appended to a locking read, e.g. " FOR UPDATE".
	// Empty when the driver locks at transaction start instead.
	LockClause string

	// TxOptions are passed to BeginTx for read/write transactions.
	TxOptions *sql.TxOptions

	IsUniqueViolation func(error) bool

	Migrate func(db *sql.DB) error
}

// Rebind converts a query written with "?" placeholders to the dialect's form.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) uniqueViolation(err error) bool {
	return err != nil && d.IsUniqueViolation != nil && d.IsUniqueViolation(err)
}
