package db

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// IsDupKeyErr reports whether err is a unique-constraint violation, e.g. a
// second registration of the same username or a duplicate like row.
func IsDupKeyErr(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
