package db

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// IsUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
// When constraint is provided (e.g. "products.slug") the message must mention it.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	matched := errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	if !matched {
		matched = strings.Contains(err.Error(), "UNIQUE constraint failed")
	}
	if !matched {
		return false
	}
	if constraint != "" {
		return strings.Contains(err.Error(), constraint)
	}
	return true
}
