package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the actor lacks the role required for the attempted action.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates a concurrent mutation invalidated an assumption
// (duplicate entry ID, double closure, stale starting balance).
var ErrConflict = errors.New("conflicting concurrent modification")

// ErrIntegrity indicates a multi-step ledger operation would have left the
// books unbalanced. Must be surfaced loudly, never swallowed.
var ErrIntegrity = errors.New("ledger integrity violation")

// ErrUnavailable indicates the data store or identity provider is unreachable.
var ErrUnavailable = errors.New("external service unavailable")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an error with an HTTP-ish status code and a message with
// enough context for logs. Repositories use it so callers keep the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
