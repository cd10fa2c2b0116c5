package fetch

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrorKind classifies a failed upstream call.
type ErrorKind int

const (
	// KindNone means the call succeeded.
	KindNone ErrorKind = iota
	// KindRateLimited is an upstream HTTP 429.
	KindRateLimited
	// KindNotFound is an upstream HTTP 404.
	KindNotFound
	// KindAPIError is any other non-2xx upstream status.
	KindAPIError
	// KindTimeout is a transport-level timeout.
	KindTimeout
	// KindNetwork is a connection/DNS level failure.
	KindNetwork
	// KindUnexpected covers everything else.
	KindUnexpected
)

// String returns a short label for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRateLimited:
		return "rate_limited"
	case KindNotFound:
		return "not_found"
	case KindAPIError:
		return "api_error"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	default:
		return "unexpected"
	}
}

// Result is the uniform outcome of an upstream call. Failures are
// carried as values, never propagated as panics or bare errors.
type Result struct {
	Success   bool
	Status    int
	Data      json.RawMessage
	Kind      ErrorKind
	Err       string
	Details   string
	FromCache bool
	// RetryAfter is set for rate-limited results (default 60s when
	// the upstream omits the Retry-After header).
	RetryAfter time.Duration
}

func success(status int, data []byte, fromCache bool) Result {
	return Result{
		Success:   true,
		Status:    status,
		Data:      data,
		FromCache: fromCache,
	}
}

func failure(kind ErrorKind, status int, msg string) Result {
	return Result{
		Success: false,
		Status:  status,
		Kind:    kind,
		Err:     msg,
	}
}

func rateLimited(status int, retryAfter time.Duration) Result {
	r := failure(KindRateLimited, status, "Rate limit exceeded")
	r.RetryAfter = retryAfter
	return r
}

func apiError(status int, body string) Result {
	r := failure(KindAPIError, status, fmt.Sprintf("API error: %d", status))
	r.Details = body
	return r
}
