// Package errors defines the classified failures produced by the domain and use case layers.
// Transport-level status codes are not part of these values; the delivery layer maps each Kind.
package errors

import (
	"github.com/pkg/errors"
)

// Kind classifies a failure so callers can branch on it without string matching.
type Kind string

const (
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindMalformedHash      Kind = "MALFORMED_HASH"
	KindDuplicateEmail     Kind = "DUPLICATE_EMAIL"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindTokenExpired       Kind = "TOKEN_EXPIRED"
	KindBadSignature       Kind = "BAD_SIGNATURE"
	KindMalformedToken     Kind = "MALFORMED_TOKEN"
	KindValidation         Kind = "VALIDATION_ERROR"
	KindInternal           Kind = "INTERNAL_ERROR"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	Kind() Kind      // Failure classification
	Message() string // User-friendly error message
	Details() string // Detailed error information (optional)
}

// Error is the concrete AppError. Two Errors match under errors.Is when their kinds are equal,
// so a value carrying details still matches the predefined sentinel of the same kind.
type Error struct {
	kind    Kind
	message string
	details string
}

// New creates a new classified error
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// Is implements errors.Is matching by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.kind == t.kind
}

// Kind returns the failure classification
func (e *Error) Kind() Kind {
	return e.kind
}

// Message returns the user-friendly error message
func (e *Error) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *Error) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *Error) WithDetails(details string) *Error {
	return &Error{
		kind:    e.kind,
		message: e.message,
		details: details,
	}
}

// WrapMessage wraps the error with additional context message
func (e *Error) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}

	return KindInternal
}

// Predefined error values, one per kind.
var (
	// Credential codec
	ErrInvalidInput  = New(KindInvalidInput, "invalid input")
	ErrMalformedHash = New(KindMalformedHash, "stored password hash is malformed")

	// Registration and login
	ErrDuplicateEmail     = New(KindDuplicateEmail, "User with this email already exists")
	ErrInvalidCredentials = New(KindInvalidCredentials, "Invalid email or password")
	ErrValidationFailed   = New(KindValidation, "Input validation failed")

	// Token issuer
	ErrTokenExpired   = New(KindTokenExpired, "token has expired")
	ErrBadSignature   = New(KindBadSignature, "token signature is invalid")
	ErrMalformedToken = New(KindMalformedToken, "token is malformed")

	// General errors
	ErrInternalError = New(KindInternal, "Internal server error")
)

// DatabaseExecuteError represents a storage failure, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// Kind returns the failure classification
func (e *DatabaseExecuteError) Kind() Kind {
	return KindInternal
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
