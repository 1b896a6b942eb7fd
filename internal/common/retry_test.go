package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &RetryableError{Err: errors.New("flaky"), Retryable: true}
		}
		return nil
	}, RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetry_AuthErrorNotRetried(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return fmt.Errorf("read: %w", ErrNotAuthenticated)
	}, RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond})

	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("auth error must surface immediately, got %d attempts", attempts)
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return fmt.Errorf("net: %w", ErrTimeout)
	}, RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond})

	if !errors.Is(err, ErrMaxRetries) {
		t.Fatalf("expected ErrMaxRetries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return fmt.Errorf("net: %w", ErrTimeout)
	}, RetryOptions{MaxAttempts: 5, InitialDelay: 50 * time.Millisecond})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "timeout", err: ErrTimeout, want: true},
		{name: "unavailable", err: fmt.Errorf("x: %w", ErrAPIUnavailable), want: true},
		{name: "not authenticated", err: ErrNotAuthenticated, want: false},
		{name: "session expired", err: ErrSessionExpired, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "retryable wrapper", err: &RetryableError{Err: errors.New("x"), Retryable: true}, want: true},
		{name: "non-retryable wrapper", err: &RetryableError{Err: errors.New("x"), Retryable: false}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
