package apiclient

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// DefaultRetryAfterSeconds is used when a 429 carries no usable Retry-After
// header.
const DefaultRetryAfterSeconds = 60

// AuthenticationError means the request was rejected with 401. It is
// terminal for the current action; the caller must re-authenticate.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "authentication required"
}

// RateLimitError means the request was rejected with 429. RetryAfter is the
// number of seconds to wait before the next attempt.
type RateLimitError struct {
	RetryAfter int
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("rate limited, retry after %ds", e.RetryAfter)
}

// ServiceUnavailableError means the backing service answered 503.
type ServiceUnavailableError struct {
	Message string
}

func (e *ServiceUnavailableError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "service temporarily unavailable"
}

// ValidationError means the server rejected the payload with 400. Details
// holds per-field messages when the server provides them.
type ValidationError struct {
	Message string
	Details map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid request"
}

// NetworkError wraps a transport-level failure where no response was
// received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError covers every other non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error: status %d", e.Status)
}

// GetErrorMessage extracts a user-presentable message from any error in the
// taxonomy.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ParseRetryAfter interprets a Retry-After header value, which may be an
// integer second count or an HTTP date. Unparseable or absent values fall
// back to the default; results never go below zero.
func ParseRetryAfter(headerValue string) int {
	if headerValue == "" {
		return DefaultRetryAfterSeconds
	}

	if secs, err := strconv.Atoi(headerValue); err == nil {
		if secs < 0 {
			return 0
		}
		return secs
	}

	if t, err := http.ParseTime(headerValue); err == nil {
		secs := int(time.Until(t).Seconds())
		if secs < 0 {
			return 0
		}
		return secs
	}

	return DefaultRetryAfterSeconds
}
