package apperror

import (
	"errors"
	"net/http"
)

// Error kinds. Every AppError built by the constructors below wraps one of
// these, so callers can classify failures with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrValidation      = errors.New("validation failure")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound reports a missing resource, or one the caller has no relation to.
func NotFound(message string) *AppError {
	return Wrap(ErrNotFound, http.StatusNotFound, message)
}

// InvalidState reports an operation the resource's current status forbids.
func InvalidState(message string) *AppError {
	return Wrap(ErrInvalidState, http.StatusBadRequest, message)
}

// Validation reports input rejected by domain rules.
func Validation(message string) *AppError {
	return Wrap(ErrValidation, http.StatusBadRequest, message)
}

// InvalidArgument reports an unrecognized argument value.
func InvalidArgument(message string) *AppError {
	return Wrap(ErrInvalidArgument, http.StatusBadRequest, message)
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *AppError {
	return Wrap(ErrConflict, http.StatusConflict, message)
}
