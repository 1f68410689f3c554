package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
)

// BreakerConfig configures a BreakerProvider.
type BreakerConfig struct {
	// Failures opens the circuit when this many of the last Failures calls failed.
	Failures uint

	// Delay is how long the circuit stays open before a probe is allowed.
	Delay time.Duration

	Logger *slog.Logger

	// OnStateChange, when set, is called with the provider name and the old
	// and new state names after every transition.
	OnStateChange func(provider, from, to string)
}

// BreakerProvider stops calling a provider that keeps failing.
// Only ErrProviderUnavailable and ErrRateLimited count as failures; a
// malformed answer means the vendor is up, and a call abandoned by its own
// context says nothing about the vendor.
type BreakerProvider struct {
	next Provider
	cb   circuitbreaker.CircuitBreaker[string]
}

// NewBreakerProvider wraps p with a circuit breaker.
func NewBreakerProvider(p Provider, cfg BreakerConfig) *BreakerProvider {
	if cfg.Failures == 0 {
		cfg.Failures = DefaultBreakerFailures
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultBreakerDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := p.Name()

	cb := circuitbreaker.NewBuilder[string]().
		HandleIf(func(_ string, err error) bool {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return false
			}
			return errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrRateLimited)
		}).
		WithFailureThresholdRatio(cfg.Failures, cfg.Failures).
		WithDelay(cfg.Delay).
		WithSuccessThreshold(1).
		OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			from, to := stateName(event.OldState), stateName(event.NewState)
			logger.Warn("ai provider circuit state changed",
				"provider", name,
				"from_state", from,
				"to_state", to)
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from, to)
			}
		}).
		Build()

	return &BreakerProvider{next: p, cb: cb}
}

// Name returns the wrapped provider's name.
func (p *BreakerProvider) Name() string {
	return p.next.Name()
}

// Generate delegates through the circuit breaker.
func (p *BreakerProvider) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := failsafe.With(p.cb).WithContext(ctx).Get(func() (string, error) {
		return p.next.Generate(ctx, prompt)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return "", fmt.Errorf("%s: %w: %w", p.next.Name(), ErrProviderUnavailable, err)
	}
	return out, err
}

// IsOpen reports whether calls are currently being rejected.
func (p *BreakerProvider) IsOpen() bool {
	return p.cb.IsOpen()
}

func stateName(state circuitbreaker.State) string {
	switch state {
	case circuitbreaker.ClosedState:
		return "closed"
	case circuitbreaker.HalfOpenState:
		return "half-open"
	case circuitbreaker.OpenState:
		return "open"
	default:
		return "unknown"
	}
}
