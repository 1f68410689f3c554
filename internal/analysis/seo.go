package analysis

import (
	"context"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/model"
)

// SEOModule looks for keyword gaps and ranking opportunities.
type SEOModule struct{}

// NewSEOModule creates a new SEOModule.
func NewSEOModule() *SEOModule {
	return &SEOModule{}
}

// Name returns the module name.
func (m *SEOModule) Name() string {
	return NameSEO
}

// Category returns the module category.
func (m *SEOModule) Category() model.Category {
	return model.CategorySEO
}

// Analyze reports the SEO baseline and the provider's SEO findings.
func (m *SEOModule) Analyze(ctx context.Context, target model.Target, provider ai.Provider) (model.PartialResult, error) {
	prompt := assessmentPrompt(target, "search engine optimization for the domain "+target.Domain(),
		"title tags and meta descriptions",
		"keyword gaps and long-tail opportunities",
		"internal linking and site structure",
		"backlink profile",
	)
	return runAssessment(ctx, m, provider, prompt, model.NewInsight(model.InsightSEOOpportunities))
}
