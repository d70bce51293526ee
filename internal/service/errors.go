package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Errors returned by the table, order and sale services. Handlers map
// these to HTTP status codes with errors.Is.
var (
	ErrPreconditionFailed  = errors.New("table selection is required")
	ErrDuplicateConstraint = errors.New("duplicate value")
	ErrCommitFailed        = errors.New("commit failed")
	ErrNotFound            = errors.New("not found")
	ErrUnavailable         = errors.New("storage unavailable")
	ErrEmptyItems          = errors.New("items are required")
	ErrInvalidQuantity     = errors.New("quantity must be > 0")
)

const pgUniqueViolation = "23505"

// Unique constraint names from migrations/000001_init_schema.up.sql.
const (
	constraintTableNumber      = "dining_tables_table_number_key"
	constraintOrderTableNumber = "orders_table_number_key"
)

// isUniqueViolation reports whether err is a unique constraint violation
// (pgconn error code 23505) on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
	}
	return false
}
