// Package apperr defines the error kinds the API distinguishes and the
// mapping from database driver errors onto them.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Kind int

const (
	KindInvalid Kind = iota
	KindNotFound
	KindConflict
	KindUnavailable
	KindInternal
)

// HTTPStatus returns the response status a handler should use for this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalid:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FieldError is a per-field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error type every layer below the handlers returns.
// Message is safe to send to clients; the wrapped cause is not.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func NewInvalid(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindInvalid, Message: message, Fields: fields}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewUnavailable(message string) *Error {
	return &Error{Kind: KindUnavailable, Message: message}
}

// NewInternal hides the cause behind a generic message.
func NewInternal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", cause: cause}
}

// KindOf reports the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// SQLSTATE codes this API distinguishes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
)

// Matches default Postgres unique constraint names: users_email_key
var uniqueColumnRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// FromPostgres converts a pgx error into an *Error. Errors that are
// already *Error pass through unchanged.
func FromPostgres(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		entity := entityName(pgErr.TableName)
		switch pgErr.Code {
		case codeUniqueViolation:
			column := "identifier"
			if m := uniqueColumnRe.FindStringSubmatch(pgErr.ConstraintName); len(m) > 1 {
				column = m[1]
			}
			return NewConflict(fmt.Sprintf("a %s with this %s already exists", entity, column))
		case codeForeignKeyViolation:
			return NewNotFound(fmt.Sprintf("referenced %s does not exist", referencedEntity(pgErr.ConstraintName, entity)))
		case codeNotNullViolation:
			column := strings.ToLower(pgErr.ColumnName)
			if column == "" {
				column = "field"
			}
			return NewInvalid(fmt.Sprintf("%s is required", column), FieldError{Field: column, Message: "is required"})
		case codeCheckViolation:
			return NewInvalid(fmt.Sprintf("%s value does not meet required conditions", checkedColumn(pgErr.ConstraintName, entity)))
		default:
			return NewInternal(err)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource not found")
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return NewUnavailable("database did not respond in time")
	}
	return NewInternal(err)
}

func entityName(tableName string) string {
	if tableName == "" {
		return "record"
	}
	entity := strings.ToLower(tableName)
	if strings.HasSuffix(entity, "s") && len(entity) > 1 {
		entity = entity[:len(entity)-1]
	}
	return entity
}

// referencedEntity recovers the target entity from a default FK
// constraint name: orders_user_id_fkey -> user.
func referencedEntity(constraintName, fallback string) string {
	name, ok := strings.CutSuffix(constraintName, "_fkey")
	if !ok {
		return fallback
	}
	if i := strings.Index(name, "_"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "_id")
	if name == "" {
		return fallback
	}
	return name
}

// checkedColumn recovers the column from a default check constraint
// name: orders_amount_check -> amount.
func checkedColumn(constraintName, fallback string) string {
	name, ok := strings.CutSuffix(constraintName, "_check")
	if !ok {
		return fallback
	}
	if i := strings.Index(name, "_"); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return fallback
	}
	return name
}
