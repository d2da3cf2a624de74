// Package store is the facade over the two record collections, tickets and
// users. All access goes through the shared pgx pool; failures come back as
// typed errors so callers can distinguish a missing record, a schema
// mismatch and a transport fault.
package store

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound reports that no record matched the given filters.
var ErrNotFound = errors.New("record not found")

// MissingColumnError reports that the store schema lacks an expected column.
// Callers use it to trigger the pre-migration fallback paths (unscoped
// select, stripped insert).
type MissingColumnError struct {
	Column string
	Err    error
}

func (e *MissingColumnError) Error() string {
	return "store schema is missing column " + e.Column
}

func (e *MissingColumnError) Unwrap() error {
	return e.Err
}

// SQLSTATE for undefined_column.
const undefinedColumnCode = "42703"

// wrapMissingColumn converts a failure that mentions one of the given
// columns into a MissingColumnError. Used once the fallback paths are
// exhausted, so callers see the schema mismatch as a typed error instead of
// raw driver text.
func wrapMissingColumn(err error, columns ...string) error {
	if col, ok := missingColumn(err, columns...); ok {
		return &MissingColumnError{Column: col, Err: err}
	}
	return err
}

// missingColumn inspects a store failure for a mention of one of the given
// columns. Postgres reports the condition as SQLSTATE 42703; when the error
// is not a pg error the raw text is matched instead, preserving the
// text-inspection shim the pre-migration fallback has always relied on.
// Matching on message text is fragile by nature and is kept only because the
// store's error format is externally fixed.
func missingColumn(err error, columns ...string) (string, bool) {
	if err == nil {
		return "", false
	}

	msg := err.Error()
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != undefinedColumnCode {
			return "", false
		}
		msg = pgErr.Message
	}

	lower := strings.ToLower(msg)
	for _, col := range columns {
		if strings.Contains(lower, col) {
			return col, true
		}
	}
	return "", false
}
