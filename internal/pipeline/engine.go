package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/analysis"
	"github.com/nao1215/siteaudit/internal/model"
	"github.com/nao1215/siteaudit/internal/synthesis"
)

// Scanner produces a ScanResult for a target.
type Scanner interface {
	Scan(ctx context.Context, target model.Target) (*model.ScanResult, error)
}

// RegistryFactory builds the module registry for a target.
type RegistryFactory func(target model.Target) *analysis.Registry

// Engine runs a complete scan: module fan-out followed by synthesis.
type Engine struct {
	provider        ai.Provider
	synthesizer     *synthesis.Synthesizer
	registryFactory RegistryFactory
	opts            []Option
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRegistryFactory sets how the module registry is built per target.
// The default registers the standard modules with analysis.NewDefaultRegistry.
func WithRegistryFactory(f RegistryFactory) EngineOption {
	return func(e *Engine) {
		if f != nil {
			e.registryFactory = f
		}
	}
}

// WithSynthesizer sets the synthesizer used to merge results.
func WithSynthesizer(s *synthesis.Synthesizer) EngineOption {
	return func(e *Engine) {
		if s != nil {
			e.synthesizer = s
		}
	}
}

// WithOrchestratorOptions sets the options for every Orchestrator the
// engine creates.
func WithOrchestratorOptions(opts ...Option) EngineOption {
	return func(e *Engine) {
		e.opts = append(e.opts, opts...)
	}
}

// NewEngine creates an Engine that hands provider to every module.
func NewEngine(provider ai.Provider, opts ...EngineOption) *Engine {
	e := &Engine{
		provider: provider,
		registryFactory: func(target model.Target) *analysis.Registry {
			return analysis.NewDefaultRegistry(target)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.synthesizer == nil {
		e.synthesizer = synthesis.New()
	}
	return e
}

// Scan audits target and returns the synthesized result.
func (e *Engine) Scan(ctx context.Context, target model.Target) (*model.ScanResult, error) {
	orchestrator := NewOrchestrator(e.registryFactory(target), e.provider, e.opts...)

	startedAt := time.Now()
	partials, err := orchestrator.Run(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to run analysis modules: %w", err)
	}

	result := e.synthesizer.Synthesize(target, partials, startedAt)
	orchestrator.recorder.ObserveScan(result.Duration(), result.Score)
	orchestrator.logger.Info("scan synthesized",
		"target", target.URL,
		"scan_id", result.ID,
		"score", result.Score,
		"insights", len(result.Insights),
	)
	return result, nil
}
