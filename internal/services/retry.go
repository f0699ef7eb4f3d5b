package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultMaxRetries  = 3
	defaultBaseBackoff = 1 * time.Second
)

// retryableError marks failures worth another attempt (transport errors, 429, 5xx).
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryableError(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// withRetry runs op until it succeeds, returns a non-retryable error, or
// maxRetries extra attempts are used. Backoff doubles from base.
func withRetry(ctx context.Context, maxRetries int, base time.Duration, op func() (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := base * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		out, err := op()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !isRetryableError(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}
