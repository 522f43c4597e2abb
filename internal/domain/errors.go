package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies errors surfaced by the learning core.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a caller-supplied value outside the contract.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeStorage indicates the record store is unreachable or rejected a write.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

// Error is a coded error returned by services.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Message: msg}
}

// InvalidArgumentf creates an invalid argument error with a formatted message.
func InvalidArgumentf(format string, args ...any) *Error {
	return InvalidArgument(fmt.Sprintf(format, args...))
}

// Storage wraps a record store failure.
func Storage(msg string, cause error) *Error {
	return &Error{Code: ErrCodeStorage, Message: msg, Cause: cause}
}

// IsInvalidArgument reports whether err carries ErrCodeInvalidArgument.
func IsInvalidArgument(err error) bool {
	return hasCode(err, ErrCodeInvalidArgument)
}

// IsStorage reports whether err carries ErrCodeStorage.
func IsStorage(err error) bool {
	return hasCode(err, ErrCodeStorage)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
