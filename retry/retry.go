/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package retry runs operations that may fail temporarily, waiting between attempts as a backoff policy says.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// IsRetryable tells temporary errors from permanent ones. A nil IsRetryable retries every error.
type IsRetryable func(err error) bool

// RetryableFunc is an operation that may be attempted several times.
type RetryableFunc func(ctx context.Context) error

// Policy makes a fresh backoff for every run of an operation.
type Policy interface {
	NewBackOff() backoff.BackOff
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func() backoff.BackOff

// NewBackOff implements Policy.
func (f PolicyFunc) NewBackOff() backoff.BackOff { return f() }

// DoWithRetry runs fn until it succeeds, returns a non-retryable error, the policy gives up, or ctx is done.
// The last error of fn is returned. notify (may be nil) is called before every wait with the error and the delay.
func DoWithRetry(ctx context.Context, p Policy, isRetryable IsRetryable, notify backoff.Notify, fn RetryableFunc) error {
	b := backoff.WithContext(p.NewBackOff(), ctx)
	return backoff.RetryNotify(func() error {
		err := fn(ctx)
		if err == nil || isRetryable == nil || isRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}, b, notify)
}

// Compute turns fn into a single-argument computation retried with DoWithRetry on every call.
// The result has the shape of a memoizing cache compute function: the caller sees the value of
// the first successful attempt, or the zero value and the last error.
func Compute[K any, V any](
	ctx context.Context, p Policy, isRetryable IsRetryable, notify backoff.Notify, fn func(ctx context.Context, key K) (V, error),
) func(key K) (V, error) {
	return func(key K) (value V, err error) {
		err = DoWithRetry(ctx, p, isRetryable, notify, func(ctx context.Context) (fnErr error) {
			value, fnErr = fn(ctx, key)
			return fnErr
		})
		if err != nil {
			var zero V
			return zero, err
		}
		return value, nil
	}
}

// ExponentialBackoffPolicy waits InitialInterval before the first retry and
// multiplies the delay by 1.5 (with jitter) before every next one.
type ExponentialBackoffPolicy struct {
	InitialInterval time.Duration
	// MaxRetries limits the number of retries, zero means no limit other than the elapsed time (15 minutes).
	MaxRetries int
}

// NewExponentialBackoffPolicy creates an ExponentialBackoffPolicy.
func NewExponentialBackoffPolicy(initialInterval time.Duration, maxRetries int) ExponentialBackoffPolicy {
	return ExponentialBackoffPolicy{InitialInterval: initialInterval, MaxRetries: maxRetries}
}

// NewBackOff implements Policy.
func (p ExponentialBackoffPolicy) NewBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.Reset()
	return limitRetries(b, p.MaxRetries)
}

// ConstantBackoffPolicy waits Interval between attempts.
type ConstantBackoffPolicy struct {
	Interval time.Duration
	// MaxRetries limits the number of retries, zero means no limit.
	MaxRetries int
}

// NewConstantBackoffPolicy creates a ConstantBackoffPolicy.
func NewConstantBackoffPolicy(interval time.Duration, maxRetries int) ConstantBackoffPolicy {
	return ConstantBackoffPolicy{Interval: interval, MaxRetries: maxRetries}
}

// NewBackOff implements Policy.
func (p ConstantBackoffPolicy) NewBackOff() backoff.BackOff {
	return limitRetries(backoff.NewConstantBackOff(p.Interval), p.MaxRetries)
}

func limitRetries(b backoff.BackOff, maxRetries int) backoff.BackOff {
	if maxRetries <= 0 {
		return b
	}
	return backoff.WithMaxRetries(b, uint64(maxRetries))
}
