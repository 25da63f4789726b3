package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrAuth indicates the provider rejected the configured credentials.
// Retrying cannot help, so the judge falls back right away.
type ErrAuth struct {
	Status int
	Err    error
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("LLM provider rejected credentials (%d): %v", e.Status, e.Err)
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// mapHTTPStatus classifies an SDK error by its HTTP status code.
func mapHTTPStatus(status int, err error) error {
	switch status {
	case http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ErrAuth{Status: status, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
