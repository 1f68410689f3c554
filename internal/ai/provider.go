package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Provider generates text for a prompt.
// Implementations must be safe for concurrent use; one provider is shared by
// every analysis module in a scan.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// Generate returns the provider's answer to prompt. Errors wrap one of
	// ErrProviderUnavailable, ErrRateLimited, or ErrMalformedResponse.
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, prompt string) (string, error)

// Name returns "func".
func (f ProviderFunc) Name() string {
	return "func"
}

// Generate calls f.
func (f ProviderFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// unavailableProvider is used when no provider is configured.
type unavailableProvider struct {
	name string
}

// Unavailable returns a Provider whose every call fails with ErrProviderUnavailable.
func Unavailable(name string) Provider {
	return unavailableProvider{name: name}
}

func (u unavailableProvider) Name() string {
	return u.name
}

func (u unavailableProvider) Generate(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("%s: %w: not configured", u.name, ErrProviderUnavailable)
}

func errMissingKey(name string) error {
	return fmt.Errorf("%s: %w: api key is not set", name, ErrProviderUnavailable)
}

// Config configures a single HTTP provider.
type Config struct {
	Model     string
	APIKey    string
	APIURL    string
	MaxTokens int
	Timeout   time.Duration
}

// Provider names accepted by NewProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderAuto      = "auto"
	ProviderNone      = "none"
)

// ProviderNames returns the provider names accepted by NewProvider.
func ProviderNames() []string {
	return []string{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderAuto, ProviderNone}
}

const (
	// DefaultRequestsPerMinute is the default local request budget per provider.
	DefaultRequestsPerMinute = 60

	// DefaultBreakerFailures is the number of consecutive-window failures
	// that opens a provider's circuit.
	DefaultBreakerFailures = 5

	// DefaultBreakerDelay is how long an open circuit waits before probing again.
	DefaultBreakerDelay = 30 * time.Second
)

// Settings selects and configures the provider stack for a scan.
type Settings struct {
	// Provider is one of openai, anthropic, gemini, auto, or none.
	// auto chains every provider that has a key, in that order.
	Provider string

	// Model overrides the default model of the selected provider.
	Model string

	OpenAIKey    string
	AnthropicKey string

	// GeminiKeys is a comma separated list of keys rotated round-robin.
	GeminiKeys string

	// RequestsPerMinute limits calls per provider. Zero disables limiting.
	RequestsPerMinute int

	// BreakerFailures opens the circuit after this many failures in a window
	// of the same size. Zero disables the breaker.
	BreakerFailures int

	// BreakerDelay is how long the circuit stays open.
	BreakerDelay time.Duration

	// OnBreakerStateChange observes circuit transitions of every provider.
	OnBreakerStateChange func(provider, from, to string)

	// Timeout bounds a single HTTP call.
	Timeout time.Duration
}

// NewProvider builds the provider stack described by s. Each concrete
// provider is wrapped with a circuit breaker and a rate limiter before being
// chained. A selection without any usable key yields Unavailable, never an error.
func NewProvider(s Settings, logger *slog.Logger) (Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var candidates []Provider
	switch name := strings.ToLower(strings.TrimSpace(s.Provider)); name {
	case ProviderOpenAI:
		candidates = appendIfKey(candidates, s.OpenAIKey, func() Provider {
			return NewOpenAIProvider(Config{Model: s.Model, APIKey: s.OpenAIKey, Timeout: s.Timeout})
		})
	case ProviderAnthropic:
		candidates = appendIfKey(candidates, s.AnthropicKey, func() Provider {
			return NewAnthropicProvider(Config{Model: s.Model, APIKey: s.AnthropicKey, Timeout: s.Timeout})
		})
	case ProviderGemini:
		candidates = appendIfKey(candidates, s.GeminiKeys, func() Provider {
			return NewGeminiProvider(Config{Model: s.Model, APIKey: s.GeminiKeys, Timeout: s.Timeout})
		})
	case ProviderAuto, "":
		// Model overrides are vendor specific, so auto uses each default.
		candidates = appendIfKey(candidates, s.OpenAIKey, func() Provider {
			return NewOpenAIProvider(Config{APIKey: s.OpenAIKey, Timeout: s.Timeout})
		})
		candidates = appendIfKey(candidates, s.AnthropicKey, func() Provider {
			return NewAnthropicProvider(Config{APIKey: s.AnthropicKey, Timeout: s.Timeout})
		})
		candidates = appendIfKey(candidates, s.GeminiKeys, func() Provider {
			return NewGeminiProvider(Config{APIKey: s.GeminiKeys, Timeout: s.Timeout})
		})
	case ProviderNone:
		return Unavailable(ProviderNone), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, s.Provider)
	}

	if len(candidates) == 0 {
		logger.Warn("no ai provider key configured, analysis modules will degrade",
			"provider", s.Provider)
		return Unavailable(strings.ToLower(s.Provider)), nil
	}

	wrapped := make([]Provider, 0, len(candidates))
	for _, p := range candidates {
		wrapped = append(wrapped, decorate(p, s, logger))
	}
	if len(wrapped) == 1 {
		return wrapped[0], nil
	}
	return NewChain(logger, wrapped...), nil
}

// decorate wraps a vendor provider with the breaker, then the limiter.
// The limiter sits outside so that calls it refuses never reach the breaker.
func decorate(p Provider, s Settings, logger *slog.Logger) Provider {
	if s.BreakerFailures > 0 {
		p = NewBreakerProvider(p, BreakerConfig{
			Failures:      uint(s.BreakerFailures),
			Delay:         s.BreakerDelay,
			Logger:        logger,
			OnStateChange: s.OnBreakerStateChange,
		})
	}
	if s.RequestsPerMinute > 0 {
		p = NewRateLimitedProvider(p, s.RequestsPerMinute)
	}
	return p
}

func appendIfKey(list []Provider, key string, build func() Provider) []Provider {
	if strings.TrimSpace(key) == "" {
		return list
	}
	return append(list, build())
}
