package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Common errors for gateway operations.
var (
	ErrNotFound   = errors.New("record not found")
	ErrForeignKey = errors.New("referenced record does not exist")
	ErrUnknownKey = errors.New("unknown foreign key")
)

// foreignKeyViolation is the PostgreSQL SQLSTATE for foreign_key_violation.
const foreignKeyViolation = "23503"

// ForeignKeyError reports a write whose foreign key points at no existing row.
type ForeignKeyError struct {
	// Field is the JSON name of the offending field, e.g. "userId".
	Field string
	// Entity is the kind of record the field references, e.g. "user".
	Entity string
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf("%s: %s references a missing %s", ErrForeignKey, e.Field, e.Entity)
}

// Unwrap lets errors.Is match ErrForeignKey.
func (e *ForeignKeyError) Unwrap() error {
	return ErrForeignKey
}

// isForeignKeyViolation checks if the error is a PostgreSQL foreign key violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
