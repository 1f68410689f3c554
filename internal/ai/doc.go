// Package ai provides the text-generation capability used by analysis modules.
//
// A Provider turns a prompt into text. Concrete providers talk to the OpenAI,
// Anthropic, and Gemini HTTP APIs; decorators add rate limiting, a circuit
// breaker, and ordered fallback across several providers. All failures are
// reported through three sentinel errors (ErrProviderUnavailable,
// ErrRateLimited, ErrMalformedResponse) so that callers can degrade without
// knowing which vendor failed.
//
// Provider output is never trusted as free text. ParseAssessment and its
// siblings decode a JSON schema, validate the fields callers consume, and
// reject anything else with ErrMalformedResponse.
package ai
