package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrNotConfigured indicates that a required external collaborator has no credentials or connection.
var ErrNotConfigured = errors.New("service not configured")

// ErrSignatureInvalid indicates that a payload signature did not verify against the shared secret.
var ErrSignatureInvalid = errors.New("invalid signature")

// ErrDownstream indicates that an external collaborator (datastore, ledger, gateway) failed.
var ErrDownstream = errors.New("downstream failure")

// ErrUnauthorized indicates missing or bad credentials.
var ErrUnauthorized = errors.New("unauthorized")

// AppError carries an HTTP status alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
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

// Downstream wraps err so that errors.Is(err, ErrDownstream) holds while the cause stays reachable.
func Downstream(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrDownstream, err)
}

// HTTPStatus maps an error to the status code handlers should answer with.
func HTTPStatus(err error) int {
	var appErr *AppError
	switch {
	case err == nil:
		return http.StatusOK
	// A downstream failure stays a server error whatever its cause wraps.
	case errors.Is(err, ErrDownstream):
		return http.StatusInternalServerError
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrSignatureInvalid), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.As(err, &appErr):
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}
