// Package repositories holds the typed row operations of the
// persistence gateway. Every mutating operation reports the number of
// rows it touched; invalid keys mean zero rows, never an error.
package repositories

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
)

func rowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, wrapDBErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapDBErr(err)
	}
	return n, nil
}

// wrapDBErr classifies a database failure. Constraint violations are
// fatal: callers are expected to pre-check invariants, so hitting one
// means a bug, not bad user input.
func wrapDBErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.NotFound, err, "row not found")
	}
	msg := err.Error()
	if strings.Contains(msg, "violates") || strings.Contains(msg, "constraint") {
		return errs.Wrap(errs.Fatal, err, "constraint violation")
	}
	return errs.Wrap(errs.Transient, err, "database error")
}

// isNoRows reports a plain missing-row result before wrapping.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
