package httperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
)

const pgUniqueViolation = "23505"

// StatusError is an error that already knows the HTTP status it maps to.
type StatusError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

func (e *StatusError) StatusCode() int {
	return e.Status
}

func NewStatus(status int, code, message string) *StatusError {
	return &StatusError{Status: status, Code: code, Message: message}
}

// FromDB translates persistence errors that are part of normal control flow.
// Anything else is returned unchanged.
func FromDB(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &StatusError{
			Status:  http.StatusConflict,
			Code:    "already_exists",
			Message: "Registro já existe.",
			Err:     err,
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &StatusError{
			Status:  http.StatusConflict,
			Code:    "already_exists",
			Message: "Registro já existe.",
			Err:     err,
		}
	}
	return err
}
