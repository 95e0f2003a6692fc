package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCacheMiss is returned when a loader finds no entry for a key.
	ErrCacheMiss = errors.New("cache miss")

	// ErrNetwork marks failures talking to the redis or mongo backend.
	ErrNetwork = errors.New("network error")
)

// RetryableError marks an error that [RetryPolicy.Do] may retry.
type RetryableError struct{ Err error }

// Retryable marks err as retryable. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// unreachable reports a backend that did not answer op.
func unreachable(backend, op string, err error) error {
	return Retryable(fmt.Errorf("%w: %s %s: %v", ErrNetwork, backend, op, err))
}

// RetryPolicy controls how remote backends wait for their server when the
// cache is opened. It is set from the [cache] section of the config file.
type RetryPolicy struct {
	Attempts int           // total tries; below 1 means a single try
	Backoff  time.Duration // wait before the second try, doubled after each
}

// DefaultRetry gives a server three tries, waiting 1s and then 2s.
var DefaultRetry = RetryPolicy{Attempts: 3, Backoff: time.Second}

// Do calls fn until it succeeds, fails with an error not marked
// [Retryable], or the attempts run out. The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := max(1, p.Attempts)
	delay := p.Backoff

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
