package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/sakif/stagebook/internal/apperror"
)

// translateErr maps driver errors onto apperror kinds. Errors that are
// already AppErrors pass through; anything else is wrapped with op so the log
// line shows where it happened.
func (db *DB) translateErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperror.Is(err) {
		return err
	}
	if db.dialect.isFKViolation(err) {
		return apperror.Integrity("the referenced artist or venue does not exist", err)
	}
	return fmt.Errorf("sqlstore: %s: %w", op, err)
}

// notFoundOr turns sql.ErrNoRows into apperror.NotFound.
func (db *DB) notFoundOr(resource string, id int64, op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NotFound(resource, strconv.FormatInt(id, 10))
	}
	return db.translateErr(op, err)
}

// checkAffected reports NotFound when an UPDATE or DELETE matched no row.
func checkAffected(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, strconv.FormatInt(id, 10))
	}
	return nil
}
