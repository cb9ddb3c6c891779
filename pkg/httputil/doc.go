// Package httputil provides HTTP plumbing shared by link resolvers.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Only errors wrapped in [RetryableError] are retried, so the caller
// decides which failures are transient. The delay between attempts doubles
// each time:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    body, err := fetch(url)
//	    if isServerError(err) {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    return err
//	})
//
// # Configuration
//
// [RetryWithBackoff] uses 3 attempts with a 1 second base delay. [Retry]
// takes both as parameters when a resolver needs different limits.
package httputil
