package analysis

import (
	"context"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/model"
)

// ContentModule evaluates copy quality, content gaps, and messaging.
type ContentModule struct{}

// NewContentModule creates a new ContentModule.
func NewContentModule() *ContentModule {
	return &ContentModule{}
}

// Name returns the module name.
func (m *ContentModule) Name() string {
	return NameContent
}

// Category returns the module category.
func (m *ContentModule) Category() model.Category {
	return model.CategoryContent
}

// Analyze reports the content baseline and the provider's content findings.
func (m *ContentModule) Analyze(ctx context.Context, target model.Target, provider ai.Provider) (model.PartialResult, error) {
	prompt := assessmentPrompt(target, "content quality and content strategy",
		"clarity of the value proposition",
		"topical gaps compared to what visitors search for",
		"readability and tone",
		"freshness of blog or news content",
	)
	return runAssessment(ctx, m, provider, prompt, model.NewInsight(model.InsightContentOptimization))
}
