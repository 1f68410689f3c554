package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/analysis"
	"github.com/nao1215/siteaudit/internal/config"
	"github.com/nao1215/siteaudit/internal/model"
	"github.com/nao1215/siteaudit/internal/pipeline"
	"github.com/nao1215/siteaudit/internal/synthesis"
)

// providerCache builds each AI provider stack once so that rate limiters
// and circuit breakers are shared by every scan in the process.
type providerCache struct {
	mu       sync.Mutex
	logger   *slog.Logger
	onChange func(provider, from, to string)
	byName   map[string]ai.Provider
}

func newProviderCache(logger *slog.Logger, onChange func(provider, from, to string)) *providerCache {
	return &providerCache{
		logger:   logger,
		onChange: onChange,
		byName:   make(map[string]ai.Provider),
	}
}

// get returns the provider stack for name. The built-in default defers to
// SITEAUDIT_AI_PROVIDER.
func (c *providerCache) get(name string) (ai.Provider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == config.DefaultProvider {
		key = ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.byName[key]; ok {
		return p, nil
	}

	settings := config.ProviderSettingsFromEnv(key)
	settings.OnBreakerStateChange = c.onChange
	p, err := ai.NewProvider(settings, c.logger)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("ai provider ready", "provider", p.Name())
	c.byName[key] = p
	return p, nil
}

// auditScanner runs one engine per target, configured from the base
// configuration and the site entry for the target's host.
type auditScanner struct {
	base      *config.Config
	providers *providerCache
	recorder  pipeline.Recorder
	logger    *slog.Logger
}

func newAuditScanner(base *config.Config, providers *providerCache, recorder pipeline.Recorder, logger *slog.Logger) *auditScanner {
	return &auditScanner{
		base:      base,
		providers: providers,
		recorder:  recorder,
		logger:    logger,
	}
}

// configFor returns the effective scan options for target. Site values fill
// only the options still at their built-in default.
func (s *auditScanner) configFor(target model.Target) (*config.Config, error) {
	cfg := *s.base
	if s.base.SiteConfigs != nil {
		cfg.ApplyDefaults(s.base.SiteConfigs.GetSiteConfig(target.Host()))
	}
	if err := cfg.ValidateScanOptions(); err != nil {
		return nil, fmt.Errorf("invalid options for %s: %w", target.Host(), err)
	}
	return &cfg, nil
}

// Scan implements pipeline.Scanner.
func (s *auditScanner) Scan(ctx context.Context, target model.Target) (*model.ScanResult, error) {
	cfg, err := s.configFor(target)
	if err != nil {
		return nil, err
	}
	provider, err := s.providers.get(cfg.Provider)
	if err != nil {
		return nil, err
	}
	return newEngine(provider, cfg, s.recorder, s.logger).Scan(ctx, target)
}

// newEngine wires the module registry, orchestrator, and synthesizer for cfg.
func newEngine(provider ai.Provider, cfg *config.Config, recorder pipeline.Recorder, logger *slog.Logger) *pipeline.Engine {
	orchestratorOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithModuleTimeout(cfg.ModuleTimeout),
	}
	if recorder != nil {
		orchestratorOpts = append(orchestratorOpts, pipeline.WithRecorder(recorder))
	}

	disabled := cfg.DisabledModules
	return pipeline.NewEngine(provider,
		pipeline.WithRegistryFactory(func(target model.Target) *analysis.Registry {
			return analysis.NewDefaultRegistry(target, analysis.WithoutModules(disabled...))
		}),
		pipeline.WithSynthesizer(synthesis.New(
			synthesis.WithLogger(logger),
			synthesis.WithDedupe(cfg.Dedupe),
			synthesis.WithMaxInsights(cfg.MaxInsights),
			synthesis.WithBaselineRevenue(cfg.BaselineRevenue),
		)),
		pipeline.WithOrchestratorOptions(orchestratorOpts...),
	)
}
