package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/model"
)

// Baseline conversion figures used when the provider cannot refine them.
const (
	baselineConversionRate = 2.3
	baselineProjectedRate  = 12.8
	baselineRevenueImpact  = 450000.0
)

const conversionEstimateShape = `Respond with a single JSON object and nothing else:
{"currentRate": <percent>, "projectedRate": <percent, at least currentRate>,
"opportunities": ["..."], "abTestSuggestions": ["..."]}`

// ConversionModule estimates the current and achievable conversion rate.
type ConversionModule struct{}

// NewConversionModule creates a new ConversionModule.
func NewConversionModule() *ConversionModule {
	return &ConversionModule{}
}

// Name returns the module name.
func (m *ConversionModule) Name() string {
	return NameConversion
}

// Category returns the module category.
func (m *ConversionModule) Category() model.Category {
	return model.CategoryConversion
}

// Analyze contributes one ConversionOpportunity. Provider estimates replace
// the baseline rates and suggestions; the revenue impact scales with the
// projected lift.
func (m *ConversionModule) Analyze(ctx context.Context, target model.Target, provider ai.Provider) (model.PartialResult, error) {
	result := newResult(m)
	opp := baselineConversion()

	text, err := generate(ctx, provider, conversionPrompt(target))
	if err == nil {
		var est ai.ConversionEstimate
		est, err = ai.ParseConversionEstimate(text)
		if err == nil {
			opp = refineConversion(opp, est)
		}
	}
	if err != nil && !degrade(&result, m.Name(), m.Category(), err) {
		return model.PartialResult{}, fmt.Errorf("failed to estimate conversion: %w", err)
	}

	result.ConversionOpportunities = []model.ConversionOpportunity{opp}
	return result, nil
}

func baselineConversion() model.ConversionOpportunity {
	return model.ConversionOpportunity{
		CurrentRate:   baselineConversionRate,
		ProjectedRate: baselineProjectedRate,
		Opportunities: []string{
			"Implement AI-powered personalization",
			"Optimize call-to-action placement",
			"Add social proof elements",
			"Improve checkout flow",
		},
		ABTestSuggestions: []string{
			"Test headline variations",
			"Test button colors and copy",
			"Test page layouts",
		},
		RevenueImpact: baselineRevenueImpact,
	}
}

// refineConversion applies a provider estimate over the baseline.
func refineConversion(base model.ConversionOpportunity, est ai.ConversionEstimate) model.ConversionOpportunity {
	baseLift := base.ProjectedRate / base.CurrentRate
	lift := est.ProjectedRate / est.CurrentRate

	out := base
	out.CurrentRate = est.CurrentRate
	out.ProjectedRate = est.ProjectedRate
	out.RevenueImpact = base.RevenueImpact * lift / baseLift
	if len(est.Opportunities) > 0 {
		out.Opportunities = est.Opportunities
	}
	if len(est.ABTestSuggestions) > 0 {
		out.ABTestSuggestions = est.ABTestSuggestions
	}
	return out
}

func conversionPrompt(target model.Target) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Estimate the conversion rate of the website %s", target.URL)
	if target.BusinessName != "" {
		fmt.Fprintf(&sb, " (%s)", target.BusinessName)
	}
	sb.WriteString(" and the rate achievable after optimization.\n")
	sb.WriteString("List the most valuable conversion opportunities and A/B tests.\n")
	sb.WriteString(conversionEstimateShape)
	return sb.String()
}
