package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/analysis"
	"github.com/nao1215/siteaudit/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultModuleTimeout is the per-module deadline.
const DefaultModuleTimeout = 20 * time.Second

// FallbackInsightTitle is the title of the insight that replaces the output
// of a failed module.
const FallbackInsightTitle = "analysis module degraded"

// Orchestrator runs every registered module concurrently against one target.
type Orchestrator struct {
	// registry supplies the modules and their priorities.
	registry *analysis.Registry

	// provider is handed to every module.
	provider ai.Provider

	// moduleTimeout bounds each module run.
	moduleTimeout time.Duration

	logger   *slog.Logger
	recorder Recorder
}

// Option is a function that configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom logger for the orchestrator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithModuleTimeout sets the per-module deadline. Non-positive values are
// ignored.
func WithModuleTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.moduleTimeout = d
		}
	}
}

// WithRecorder sets the recorder that observes module runs.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

// NewOrchestrator creates an Orchestrator for the modules in registry.
func NewOrchestrator(registry *analysis.Registry, provider ai.Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:      registry,
		provider:      provider,
		moduleTimeout: DefaultModuleTimeout,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.recorder == nil {
		o.recorder = nopRecorder{}
	}
	if o.registry == nil {
		o.registry = analysis.NewRegistry()
	}

	return o
}

// ModuleCount returns the number of modules the orchestrator runs.
func (o *Orchestrator) ModuleCount() int {
	return o.registry.Len()
}

// Run executes all modules and returns their results in completion order.
//
// Exactly one result is returned per registered module: a module that
// returns an error, panics, or misses its deadline is represented by a
// fallback result with status failed. The only error is
// ErrNoModulesRegistered.
func (o *Orchestrator) Run(ctx context.Context, target model.Target) ([]model.PartialResult, error) {
	modules := o.registry.Modules()
	if len(modules) == 0 {
		return nil, ErrNoModulesRegistered
	}

	startTime := time.Now()
	o.logger.Info("starting scan",
		"target", target.URL,
		"modules", len(modules),
		"started_at", startTime.Format(time.RFC3339),
	)

	var (
		mu      sync.Mutex
		results = make([]model.PartialResult, 0, len(modules))
	)

	var g errgroup.Group
	for priority, m := range modules {
		g.Go(func() error {
			result := o.runModule(ctx, m, priority, target)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // module goroutines never return errors

	degraded := 0
	for _, r := range results {
		if r.Status != model.ModuleStatusOK {
			degraded++
		}
	}

	o.logger.Info("scan complete",
		"target", target.URL,
		"modules", len(results),
		"degraded", degraded,
		"completed_at", time.Now().Format(time.RFC3339),
		"elapsed", time.Since(startTime),
	)

	return results, nil
}

// outcome is what a module goroutine reports back.
type outcome struct {
	result model.PartialResult
	err    error
}

// runModule runs one module under its own deadline and always returns a
// usable result.
func (o *Orchestrator) runModule(ctx context.Context, m analysis.Module, priority int, target model.Target) model.PartialResult {
	ctx, cancel := context.WithTimeout(ctx, o.moduleTimeout)
	defer cancel()

	name := m.Name()
	start := time.Now()
	o.logger.Debug("running module", "module", name, "priority", priority)

	// Each module gets its own copy of the mutable parts of the target.
	local := target
	local.SocialHandles = target.SocialHandles.Clone()

	// Buffered so an overrunning module can finish without blocking.
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", errModulePanic, r)}
			}
		}()
		result, err := m.Analyze(ctx, local, o.provider)
		done <- outcome{result: result, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out = outcome{err: fmt.Errorf("module deadline exceeded: %w", ctx.Err())}
	}

	elapsed := time.Since(start)
	var result model.PartialResult
	if out.err != nil {
		o.logger.Warn("module failed, using fallback",
			"module", name,
			"error", out.err,
			"elapsed", elapsed,
		)
		result = fallbackResult(m, out.err)
	} else {
		result = out.result
		if result.Insights == nil {
			result.Insights = make([]model.Insight, 0)
		}
		if result.Status == "" {
			result.Status = model.ModuleStatusOK
		}
		if result.Status == model.ModuleStatusDegraded {
			o.logger.Warn("module degraded",
				"module", name,
				"error", result.Error,
				"elapsed", elapsed,
			)
		} else {
			o.logger.Debug("module completed", "module", name, "elapsed", elapsed)
		}
	}

	result.Module = name
	result.Priority = priority
	result.Duration = elapsed
	o.recorder.ObserveModule(name, result.Status, elapsed)
	return result
}

// fallbackResult replaces the output of a module that did not complete.
func fallbackResult(m analysis.Module, err error) model.PartialResult {
	return model.PartialResult{
		Module: m.Name(),
		Insights: []model.Insight{{
			Category:    m.Category(),
			Severity:    model.SeverityMedium,
			Title:       FallbackInsightTitle,
			Description: fmt.Sprintf("The %s module did not complete, so its findings are missing from this report.", m.Name()),
			Impact:      "Part of the site was not assessed.",
			Solution:    "Re-run the audit; if the problem persists, check the scan logs for this module.",
			Effort:      model.EffortLow,
			ROI:         0,
		}},
		Status: model.ModuleStatusFailed,
		Error:  err.Error(),
	}
}
