package errors

import (
	"errors"
	"fmt"
)

// Error represents a typed domain error with a stable machine-readable code.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	// ErrAuthorization means the intranet rejected the session cookie.
	// Terminal for the whole run, never retried.
	ErrAuthorization = New("AUTHORIZATION_FAILED", "intranet rejected the session cookie")

	// ErrTransient means the intranet was unavailable; the transport retries
	// before surfacing it, after which it is terminal.
	ErrTransient = New("TRANSIENT_UNAVAILABLE", "intranet temporarily unavailable")

	// ErrMalformedRecord means a single module record could not be fetched or
	// decoded; the module is degraded, the run continues.
	ErrMalformedRecord = New("MALFORMED_RECORD", "module record could not be decoded")

	// ErrEmptyResult means there is nothing to report on. It is a non-failure
	// outcome: callers terminate early with a success status.
	ErrEmptyResult = New("EMPTY_RESULT", "nothing to report")

	// ErrInvalidRange means a date range had its bounds reversed.
	ErrInvalidRange = New("INVALID_RANGE", "invalid date range")

	ErrInternal = New("INTERNAL_ERROR", "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Message)
}

func hasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsAuthorization reports whether err is an authorization failure.
func IsAuthorization(err error) bool { return hasCode(err, ErrAuthorization.Code) }

// IsTransient reports whether err is a retryable unavailability signal.
func IsTransient(err error) bool { return hasCode(err, ErrTransient.Code) }

// IsEmptyResult reports whether err is the non-failure "nothing to do" outcome.
func IsEmptyResult(err error) bool { return hasCode(err, ErrEmptyResult.Code) }

// IsInvalidRange reports whether err signals reversed range bounds.
func IsInvalidRange(err error) bool { return hasCode(err, ErrInvalidRange.Code) }
