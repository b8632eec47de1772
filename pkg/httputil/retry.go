package httputil

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// RetryableError marks a fetch failure as transient. [Policy.Do] retries
// only errors of this type.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy bounds how often and how patiently a background image fetch is
// retried.
type Policy struct {
	Attempts int           // total tries, at least 1
	Delay    time.Duration // pause after the first failure, doubled per retry
	MaxDelay time.Duration // cap on a single pause; zero means uncapped
}

// DefaultPolicy keeps the retries of a remote image well inside the
// analysis deadline: three tries with 100ms and 200ms pauses.
var DefaultPolicy = Policy{Attempts: 3, Delay: 100 * time.Millisecond, MaxDelay: 400 * time.Millisecond}

// Do runs fn until it succeeds, fails permanently, or the attempts run out.
// A cancelled ctx stops further tries and returns ctx.Err().
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return lastErr
}

// Retry runs fn with an uncapped doubling backoff.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Policy{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

// RetryWithBackoff runs fn under [DefaultPolicy].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultPolicy.Do(ctx, fn)
}

// RetryableStatus reports whether an image host's response status is worth
// another try: request timeouts, rate limiting and server errors.
func RetryableStatus(code int) bool {
	switch {
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	case code >= 500 && code != http.StatusNotImplemented:
		return true
	}
	return false
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
