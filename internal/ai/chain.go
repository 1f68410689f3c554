package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Chain tries its providers in order and returns the first successful answer.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain creates a Chain over providers.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{providers: providers, logger: logger}
}

// Name returns the member names joined with "+".
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return strings.Join(names, "+")
}

// Generate returns the first successful answer. When every provider fails,
// the returned error joins all failures so errors.Is matches each sentinel.
func (c *Chain) Generate(ctx context.Context, prompt string) (string, error) {
	if len(c.providers) == 0 {
		return "", fmt.Errorf("chain: %w: no providers", ErrProviderUnavailable)
	}

	errs := make([]error, 0, len(c.providers))
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("chain: %w: %w", ErrProviderUnavailable, err))
			break
		}
		out, err := p.Generate(ctx, prompt)
		if err == nil {
			return out, nil
		}
		c.logger.Debug("ai provider failed, trying next", "provider", p.Name(), "error", err)
		errs = append(errs, err)
	}
	return "", errors.Join(errs...)
}
