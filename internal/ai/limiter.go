package ai

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedProvider admits calls to the wrapped provider through a token bucket.
// A call that cannot get a token before its context ends fails with
// ErrRateLimited instead of waiting indefinitely.
type RateLimitedProvider struct {
	next    Provider
	limiter *rate.Limiter
}

// NewRateLimitedProvider limits p to requestsPerMinute calls, with a burst
// equal to one tenth of the budget (minimum one).
func NewRateLimitedProvider(p Provider, requestsPerMinute int) *RateLimitedProvider {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedProvider{
		next:    p,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), burst),
	}
}

// Name returns the wrapped provider's name.
func (p *RateLimitedProvider) Name() string {
	return p.next.Name()
}

// Generate waits for a token, then delegates.
func (p *RateLimitedProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%s: %w: %w", p.next.Name(), ErrRateLimited, err)
	}
	return p.next.Generate(ctx, prompt)
}
