package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
var (
	// ErrNoTarget is returned when no website URL is specified.
	ErrNoTarget = errors.New("no target specified: provide one or more website URLs")

	// ErrInvalidModuleTimeout is returned when the per-module timeout is
	// outside the supported range.
	ErrInvalidModuleTimeout = errors.New("invalid module timeout: must be between 10s and 30s")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxInsights is returned when the insight cap is negative.
	// Use 0 for no cap.
	ErrInvalidMaxInsights = errors.New("invalid max insights: must be non-negative")

	// ErrInvalidBaselineRevenue is returned when the baseline revenue is not positive.
	ErrInvalidBaselineRevenue = errors.New("invalid baseline revenue: must be positive")

	// ErrUnknownModule is returned when a disabled module name does not match
	// any analysis module.
	ErrUnknownModule = errors.New("unknown analysis module")

	// ErrUnknownProvider is returned when the AI provider name is not supported.
	ErrUnknownProvider = errors.New("unknown ai provider: use openai, anthropic, gemini, auto, or none")

	// ErrEmptyServerAddr is returned when serve has no listen address.
	ErrEmptyServerAddr = errors.New("server address must not be empty")
)
