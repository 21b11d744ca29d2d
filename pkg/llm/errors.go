package llm

import "errors"

// Providers normalize backend failures onto these sentinels so that
// callers can branch on the failure class instead of parsing response
// bodies. Wrap with fmt.Errorf("...: %w", Err...) to keep detail.
var (
	// ErrModelNotFound means the requested model identifier does not
	// exist on the backend. Callers may retry with a fallback model.
	ErrModelNotFound = errors.New("model not found")

	// ErrRateLimited means the backend applied quota or rate-limit
	// backpressure. The caller decides whether and how long to back off.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidCredential means the backend rejected the API key.
	// Not retryable.
	ErrInvalidCredential = errors.New("invalid credential")
)
