package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrDuplicate        = errors.New("duplicate record")
)

// storeError tags driver errors with the operation that failed and, where the
// SQLSTATE is meaningful to callers, with one of the package sentinels. The
// original error stays in the chain.
func storeError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w: %w", op, ErrInvalidReference, err)
		case uniqueViolation:
			return fmt.Errorf("%s: %w: %w", op, ErrDuplicate, err)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
