// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// API errors.
	ErrNotFound         = errors.New("not found")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrAPIUnavailable   = errors.New("api unavailable")
	ErrTimeout          = errors.New("request timed out")

	// Session errors.
	ErrSessionExpired = errors.New("session expired")
	ErrNoSession      = errors.New("no saved session")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry. Auth failures
// are never retryable; the caller must drop to login instead.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrSessionExpired) {
		return false
	}

	if errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrAPIUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
