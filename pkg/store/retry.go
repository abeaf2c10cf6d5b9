package store

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryBaseDelay is the wait before the second attempt. It doubles after
// every failed attempt.
var retryBaseDelay = 200 * time.Millisecond

// RetryWithBackoff runs fn up to attempts times with exponential backoff.
// Only errors wrapped with Retryable trigger another attempt.
func RetryWithBackoff(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	delay := retryBaseDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

type retryStore struct {
	Store
	attempts int
}

// WithRetry retries retryable failures of s up to attempts times.
// attempts <= 1 returns s unchanged.
func WithRetry(s Store, attempts int) Store {
	if attempts <= 1 {
		return s
	}
	return &retryStore{Store: s, attempts: attempts}
}

func (r *retryStore) Put(ctx context.Context, id string, data []byte) error {
	return RetryWithBackoff(ctx, r.attempts, func() error {
		return r.Store.Put(ctx, id, data)
	})
}

func (r *retryStore) Get(ctx context.Context, id string) ([]byte, bool, error) {
	var (
		data []byte
		hit  bool
	)
	err := RetryWithBackoff(ctx, r.attempts, func() error {
		var err error
		data, hit, err = r.Store.Get(ctx, id)
		return err
	})
	return data, hit, err
}

func (r *retryStore) Delete(ctx context.Context, id string) error {
	return RetryWithBackoff(ctx, r.attempts, func() error {
		return r.Store.Delete(ctx, id)
	})
}
