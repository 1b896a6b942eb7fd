package api

import (
	"errors"
	"fmt"

	"github.com/gastos-cli/gastos/internal/common"
)

// Error is the uniform failure type for every API call. Status is the HTTP
// status code when one was received, zero for transport-level failures.
type Error struct {
	Err     error
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err represents a 401/403 from the backend.
// Auth errors are never retried; they force the session to unauthenticated.
func IsAuthError(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == 401 || apiErr.Status == 403
	}
	return errors.Is(err, common.ErrNotAuthenticated)
}

// StatusOf extracts the HTTP status from an API error, zero if none.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// newHTTPError maps an HTTP status plus response body to a typed error,
// attaching the sentinel that drives retry and logout decisions.
func newHTTPError(status int, body []byte, fallback string) *Error {
	msg := extractMessage(body)
	if msg == "" {
		msg = fallback
	}

	var sentinel error
	switch {
	case status == 401 || status == 403:
		sentinel = common.ErrNotAuthenticated
	case status == 404:
		sentinel = common.ErrNotFound
	case status >= 500:
		sentinel = common.ErrAPIUnavailable
	}

	return &Error{Message: msg, Status: status, Err: sentinel}
}
