package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness. Fields carries
// field-keyed validation messages when the error originates from form
// validation.
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	// ErrInvalidCredentials carries one uniform message for unknown
	// usernames and wrong passwords alike.
	ErrInvalidCredentials   = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid username or password")
	ErrNotFound             = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrStudentNotFound      = New("STUDENT_NOT_FOUND", http.StatusNotFound, "student ID not found")
	ErrClearanceDenied      = New("CLEARANCE_DENIED", http.StatusUnprocessableEntity, "clearance denied")
	ErrCertificateNotReady  = New("CERTIFICATE_NOT_READY", http.StatusConflict, "no approved clearance decision to render")
	ErrConfirmationRequired = New("CONFIRMATION_REQUIRED", http.StatusPreconditionRequired, "deletion requires confirmation")
	ErrStorageUnavailable   = New("STORAGE_UNAVAILABLE", http.StatusServiceUnavailable, "persistent storage unavailable")
	ErrForbidden            = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized         = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict             = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation           = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal             = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss            = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Validation builds a field-keyed validation error.
func Validation(fields map[string]string) *Error {
	e := *ErrValidation
	e.Fields = fields
	return &e
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
