// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
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

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Data errors
	ErrNoData           = &Error{Code: "NO_DATA", Message: "no bar data available"}
	ErrInsufficientData = &Error{Code: "INSUFFICIENT_DATA", Message: "insufficient bars for indicator warm-up"}
	ErrMalformedBar     = &Error{Code: "MALFORMED_BAR", Message: "bar fails OHLC consistency checks"}
	ErrFeedFailed       = &Error{Code: "FEED_FAILED", Message: "price feed failed"}

	// Configuration errors
	ErrConfigInvalid  = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrUnknownProfile = &Error{Code: "UNKNOWN_PROFILE", Message: "unknown risk profile"}

	// Simulation errors
	ErrRunFailed = &Error{Code: "RUN_FAILED", Message: "backtest run failed"}
)
