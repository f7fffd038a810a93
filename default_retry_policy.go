package venmo

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// DefaultRetryPolicy is the retry condition used by [Client] when retries are
// enabled with [WithRetryCount]. Only GET requests are retried; payment
// submissions are never replayed. Within GETs it retries on HTTP 429 and 5xx
// responses and on transient connection errors, but not on context
// cancellation, deadline exceeded, or DNS resolution failures.
//
// Supply a custom function via [WithRetryPolicy] to override this behaviour.
func DefaultRetryPolicy(r *resty.Response, err error) bool {
	if r != nil && r.Request != nil && r.Request.Method != http.MethodGet {
		return false
	}

	if err != nil {
		// Don't retry on context cancellation or deadline exceeded
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}

		// Don't retry on DNS resolution errors
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			return false
		}

		return true
	}

	if r == nil {
		return false
	}

	return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
}
