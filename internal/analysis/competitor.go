package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/model"
)

const competitorReportShape = `Respond with a single JSON object and nothing else:
{"topCompetitors": ["domain", ...], "strengthsWeaknesses": ["..."],
"marketPosition": "...", "opportunities": ["..."]}`

// CompetitorModule positions the site against its competitors.
// Competitive data is produced by the provider; real data acquisition is
// out of scope.
type CompetitorModule struct{}

// NewCompetitorModule creates a new CompetitorModule.
func NewCompetitorModule() *CompetitorModule {
	return &CompetitorModule{}
}

// Name returns the module name.
func (m *CompetitorModule) Name() string {
	return NameCompetitor
}

// Category returns the module category.
func (m *CompetitorModule) Category() model.Category {
	return model.CategoryContent
}

// Analyze contributes the CompetitorAnalysis subsection.
func (m *CompetitorModule) Analyze(ctx context.Context, target model.Target, provider ai.Provider) (model.PartialResult, error) {
	result := newResult(m)
	analysis := baselineCompetitorAnalysis()

	text, err := generate(ctx, provider, competitorPrompt(target))
	if err == nil {
		var rep ai.CompetitorReport
		rep, err = ai.ParseCompetitorReport(text)
		if err == nil {
			analysis = model.CompetitorAnalysis{
				TopCompetitors:      rep.TopCompetitors,
				StrengthsWeaknesses: rep.StrengthsWeaknesses,
				MarketPosition:      rep.MarketPosition,
				Opportunities:       rep.Opportunities,
			}
		}
	}
	if err != nil && !degrade(&result, m.Name(), m.Category(), err) {
		return model.PartialResult{}, fmt.Errorf("failed to analyze competitors: %w", err)
	}

	result.CompetitorAnalysis = &analysis
	return result, nil
}

func baselineCompetitorAnalysis() model.CompetitorAnalysis {
	return model.CompetitorAnalysis{
		TopCompetitors: []string{"competitor1.com", "competitor2.com", "competitor3.com"},
		StrengthsWeaknesses: []string{
			"Stronger social media presence needed",
			"Better mobile experience than competitors",
			"Pricing strategy needs optimization",
		},
		MarketPosition: "Strong potential for market leadership",
		Opportunities: []string{
			"Capture competitor keyword gaps",
			"Improve user experience beyond competition",
			"Leverage unique value propositions",
		},
	}
}

func competitorPrompt(target model.Target) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Identify the main competitors of the website %s (domain %s)", target.URL, target.Domain())
	if target.Location != "" {
		fmt.Fprintf(&sb, " operating near %s", target.Location)
	}
	sb.WriteString(".\nSummarize strengths and weaknesses, the market position, and opportunities to win share.\n")
	sb.WriteString(competitorReportShape)
	return sb.String()
}
