package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Authentication outcomes. All API-key-path failures collapse into
	// ErrUnauthenticated so a caller cannot distinguish a missing key from
	// an inactive one.
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrAccountInactive    = errors.New("account inactive")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrForbidden          = errors.New("forbidden")

	// Tenant resolution outcomes. These indicate a configuration problem,
	// not a security probe, and may carry a descriptive message.
	ErrNoTenantAssigned = errors.New("user has no company assigned")
	ErrTenantNotFound   = errors.New("company not found")
	ErrTenantRequired   = errors.New("company id required for this operation")

	// ErrAuditFailure means an audit record could not be written. The
	// enclosing transaction must be rolled back: a mutation without its
	// audit record is a correctness violation, not a recoverable condition.
	ErrAuditFailure = errors.New("audit record write failed")
)

// AppError represents application error with HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthenticated)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
		Err:     err,
	}
}
