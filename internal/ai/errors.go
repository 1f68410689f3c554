package ai

import "errors"

var (
	// ErrProviderUnavailable is returned when the provider cannot be reached,
	// is not configured, answers with a server error, or its circuit is open.
	ErrProviderUnavailable = errors.New("ai provider unavailable")

	// ErrRateLimited is returned when the provider rejects the request for
	// quota reasons or the local rate limiter cannot admit it before the
	// caller's deadline.
	ErrRateLimited = errors.New("ai provider rate limited")

	// ErrMalformedResponse is returned when the provider answers but the
	// content does not satisfy the expected schema.
	ErrMalformedResponse = errors.New("ai provider returned a malformed response")

	// ErrUnknownProvider is returned by NewProvider for an unsupported name.
	ErrUnknownProvider = errors.New("unknown ai provider")
)
