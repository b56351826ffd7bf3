package apperr

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindInvalid.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, KindNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, KindConflict.HTTPStatus())
	assert.Equal(t, http.StatusServiceUnavailable, KindUnavailable.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, KindInternal.HTTPStatus())
}

func TestFromPostgres_UniqueViolation(t *testing.T) {
	err := FromPostgres(&pgconn.PgError{
		Code:           "23505",
		TableName:      "users",
		ConstraintName: "users_email_key",
	})

	assert.Equal(t, KindConflict, err.Kind)
	assert.Equal(t, "a user with this email already exists", err.Message)
}

func TestFromPostgres_UniqueViolationUnknownConstraint(t *testing.T) {
	err := FromPostgres(&pgconn.PgError{
		Code:      "23505",
		TableName: "users",
	})

	assert.Equal(t, KindConflict, err.Kind)
	assert.Equal(t, "a user with this identifier already exists", err.Message)
}

func TestFromPostgres_ForeignKeyViolation(t *testing.T) {
	err := FromPostgres(&pgconn.PgError{
		Code:           "23503",
		TableName:      "orders",
		ConstraintName: "orders_user_id_fkey",
	})

	assert.Equal(t, KindNotFound, err.Kind)
	assert.Equal(t, "referenced user does not exist", err.Message)
}

func TestFromPostgres_NotNullViolation(t *testing.T) {
	err := FromPostgres(&pgconn.PgError{
		Code:       "23502",
		TableName:  "users",
		ColumnName: "email",
	})

	assert.Equal(t, KindInvalid, err.Kind)
	require.Len(t, err.Fields, 1)
	assert.Equal(t, "email", err.Fields[0].Field)
}

func TestFromPostgres_CheckViolation(t *testing.T) {
	err := FromPostgres(&pgconn.PgError{
		Code:           "23514",
		TableName:      "orders",
		ConstraintName: "orders_amount_check",
	})

	assert.Equal(t, KindInvalid, err.Kind)
	assert.Contains(t, err.Message, "amount")
}

func TestFromPostgres_NoRows(t *testing.T) {
	err := FromPostgres(pgx.ErrNoRows)
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestFromPostgres_DeadlineExceeded(t *testing.T) {
	err := FromPostgres(context.DeadlineExceeded)
	assert.Equal(t, KindUnavailable, err.Kind)
}

func TestFromPostgres_UnknownError(t *testing.T) {
	cause := errors.New("connection reset")
	err := FromPostgres(cause)

	assert.Equal(t, KindInternal, err.Kind)
	// Client-facing message must not leak the cause
	assert.Equal(t, "internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestFromPostgres_PassesThroughAppErrors(t *testing.T) {
	orig := NewNotFound("user not found")
	assert.Same(t, orig, FromPostgres(orig))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(NewConflict("dup")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}
