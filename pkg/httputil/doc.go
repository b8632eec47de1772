// Package httputil provides HTTP helpers for fetching remote background images.
//
// # Retry
//
// [Retry] wraps a fetch with automatic retry for transient failures. Only
// errors wrapped in [RetryableError] are retried; callers decide which
// failures are transient. [RetryableStatus] classifies response codes:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
//
// The delay doubles after each failed attempt. Cancelling ctx aborts the
// wait between attempts.
//
// # Configuration
//
// [RetryWithBackoff] uses [DefaultPolicy]: 3 attempts with a 100ms initial
// delay capped at 400ms, so a flaky host still fits the analysis deadline.
// Build a [Policy] directly for other budgets.
package httputil
