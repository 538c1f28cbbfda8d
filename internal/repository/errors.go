package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates that no row has the requested primary key.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation is matched by every *ConstraintError.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrDuplicate indicates that a natural key is already taken.
	ErrDuplicate = errors.New("duplicate resource")

	// ErrInvalidInput indicates a request the repository refuses to apply.
	ErrInvalidInput = errors.New("invalid input")
)

// ConstraintError wraps a uniqueness, foreign-key or check violation and
// keeps the database's own detail text.
type ConstraintError struct {
	Err error
}

func (e *ConstraintError) Error() string {
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) && pgErr.Detail != "" {
		return pgErr.Message + ": " + pgErr.Detail
	}
	return e.Err.Error()
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// IsConstraintViolation reports whether err came from an integrity
// constraint on either supported engine.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 23: integrity constraint violation
		return strings.HasPrefix(pgErr.Code, "23")
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}

	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated)
}

// translate maps driver errors onto the repository's error taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case IsConstraintViolation(err):
		return &ConstraintError{Err: err}
	default:
		return err
	}
}
