// Package log provides secure logging built on the standard slog package.
//
// The SecureHandler wraps any slog.Handler and masks values that look like
// credentials before they are written. This matters for siteaudit because
// provider errors and request logs can carry AI API keys:
//   - HTTP headers (Authorization, X-Api-Key, X-Goog-Api-Key)
//   - OpenAI (sk-...), Anthropic (sk-ant-...), and Google (AIza...) keys,
//     also when embedded in longer strings such as error messages
//   - Bearer tokens, JWTs, and other long opaque strings
//
// Even in verbose mode, sensitive values are masked.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Warn("provider call failed", "x-goog-api-key", key) // masked
package log
