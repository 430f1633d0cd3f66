package gateway

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for upstream calls.
//
// The aggregator decides retries and soft/hard handling from the category alone,
// never from status codes or raw messages.
type ErrorCategory string

const (
	// ErrorNotFound is a soft absence: no profile yet, no reviews yet.
	ErrorNotFound ErrorCategory = "not_found"

	ErrorTimeout        ErrorCategory = "timeout"
	ErrorBadData        ErrorCategory = "bad_data"
	ErrorAuthentication ErrorCategory = "authentication"
	ErrorOutage         ErrorCategory = "outage"
	ErrorRateLimited    ErrorCategory = "rate_limited"
	ErrorRejected       ErrorCategory = "rejected" // 4xx other than the above
	ErrorInternal       ErrorCategory = "internal"
)

// Error wraps an upstream failure with its category and the source it came from.
type Error struct {
	Category   ErrorCategory
	Source     Source
	Message    string
	StatusCode int
	Underlying error
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("gateway %s [%s]: %s: %v", e.Source, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("gateway %s [%s]: %s", e.Source, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError builds a categorized error. Timeouts, outages and rate limiting are
// transient and marked retryable; everything else is permanent.
func NewError(category ErrorCategory, source Source, message string, underlying error) *Error {
	retryable := category == ErrorTimeout ||
		category == ErrorOutage ||
		category == ErrorRateLimited

	return &Error{
		Category:   category,
		Source:     source,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable reports whether err is a transient gateway failure.
func IsRetryable(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Retryable
	}
	return false
}

// IsNotFound reports whether err is a soft absence.
func IsNotFound(err error) bool {
	return Category(err) == ErrorNotFound
}

// Category extracts the error category, defaulting to ErrorInternal.
func Category(err error) ErrorCategory {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Category
	}
	return ErrorInternal
}
