package repositories

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	fk := &pgconn.PgError{Code: foreignKeyViolation, ConstraintName: "orders_user_id_fkey"}
	dup := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"}
	other := errors.New("tls handshake timeout")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{name: "no rows", err: pgx.ErrNoRows, sentinel: ErrNotFound},
		{name: "foreign key", err: fk, sentinel: ErrInvalidReference},
		{name: "unique", err: dup, sentinel: ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storeError("insert order", tt.err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Contains(t, err.Error(), "insert order")
		})
	}

	err := storeError("insert order", fk)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "orders_user_id_fkey", pgErr.ConstraintName)

	err = storeError("query orders", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidReference)
}

func TestIsUniqueViolation(t *testing.T) {
	onKey := &pgconn.PgError{Code: uniqueViolation, ConstraintName: idempotencyConstraint}
	onEmail := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"}

	assert.True(t, isUniqueViolation(storeError("insert order", onKey), idempotencyConstraint))
	assert.False(t, isUniqueViolation(onEmail, idempotencyConstraint))
	assert.False(t, isUniqueViolation(errors.New("boom"), idempotencyConstraint))
}
