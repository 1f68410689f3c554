package analysis

import (
	"context"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/model"
)

// TechnicalModule reviews the technical infrastructure of the site:
// architecture, hosting, rendering strategy, and code quality signals.
type TechnicalModule struct{}

// NewTechnicalModule creates a new TechnicalModule.
func NewTechnicalModule() *TechnicalModule {
	return &TechnicalModule{}
}

// Name returns the module name.
func (m *TechnicalModule) Name() string {
	return NameTechnical
}

// Category returns the module category.
func (m *TechnicalModule) Category() model.Category {
	return model.CategoryTechnical
}

// Analyze reports the architecture baseline and the provider's technical findings.
func (m *TechnicalModule) Analyze(ctx context.Context, target model.Target, provider ai.Provider) (model.PartialResult, error) {
	prompt := assessmentPrompt(target, "technical infrastructure and code architecture",
		"rendering strategy and framework choice",
		"caching, CDN usage, and hosting reliability",
		"JavaScript bundle size and third-party scripts",
		"structured data and crawlability",
	)
	return runAssessment(ctx, m, provider, prompt, model.NewInsight(model.InsightCodeArchitecture))
}
