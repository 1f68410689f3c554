package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/model"
)

// maxAIInsights caps how many provider insights one module contributes.
const maxAIInsights = 5

// newResult returns an empty, successful PartialResult for module m.
func newResult(m Module) model.PartialResult {
	return model.PartialResult{
		Module:   m.Name(),
		Insights: make([]model.Insight, 0),
		Status:   model.ModuleStatusOK,
	}
}

// degradedInsight is the informational insight a module adds when it fell
// back to default data.
func degradedInsight(name string, category model.Category) model.Insight {
	return model.Insight{
		Category:    category,
		Severity:    model.SeverityLow,
		Title:       name + " analysis degraded",
		Description: fmt.Sprintf("%s analysis completed with default insights because the AI provider could not be used.", name),
		Impact:      "Findings in this area are based on baseline heuristics only.",
		Solution:    "Re-run the audit once the AI provider is available.",
		Effort:      model.EffortLow,
		ROI:         0,
	}
}

// degrade marks result as degraded by err. It returns false when err is not
// a provider failure the module is expected to absorb; the caller must then
// return the error to the orchestrator.
func degrade(result *model.PartialResult, name string, category model.Category, err error) bool {
	if !ai.IsRecoverable(err) {
		return false
	}
	result.Status = model.ModuleStatusDegraded
	result.Error = err.Error()
	result.Insights = append(result.Insights, degradedInsight(name, category))
	return true
}

// generate asks provider for text, treating a nil provider as unavailable.
func generate(ctx context.Context, provider ai.Provider, prompt string) (string, error) {
	if provider == nil {
		return "", fmt.Errorf("%w: no provider", ai.ErrProviderUnavailable)
	}
	return provider.Generate(ctx, prompt)
}

// assess runs an assessment prompt and parses the strict answer.
func assess(ctx context.Context, provider ai.Provider, prompt string) (ai.Assessment, error) {
	text, err := generate(ctx, provider, prompt)
	if err != nil {
		return ai.Assessment{}, err
	}
	return ai.ParseAssessment(text)
}

// runAssessment is the shared flow of the assessment-based modules: emit the
// baseline insights, then append the provider's insights, degrading on
// provider failure.
func runAssessment(ctx context.Context, m Module, provider ai.Provider, prompt string, baseline ...model.Insight) (model.PartialResult, error) {
	result := newResult(m)
	result.Insights = append(result.Insights, baseline...)

	a, err := assess(ctx, provider, prompt)
	if err != nil {
		if degrade(&result, m.Name(), m.Category(), err) {
			return result, nil
		}
		return model.PartialResult{}, fmt.Errorf("failed to run %s assessment: %w", strings.ToLower(m.Name()), err)
	}
	result.Insights = append(result.Insights, limitInsights(a.Insights)...)
	return result, nil
}

// limitInsights returns at most maxAIInsights insights.
func limitInsights(in []model.Insight) []model.Insight {
	if len(in) > maxAIInsights {
		return in[:maxAIInsights]
	}
	return in
}

const assessmentSchema = `Respond with a single JSON object and nothing else:
{"insights": [{"category": "SEO|Performance|UX|Conversion|Technical|Content|Mobile|Security",
"severity": "low|medium|high|critical", "title": "...", "description": "...", "impact": "...",
"solution": "...", "effort": "low|medium|high", "roi": <non-negative integer percent>}]}`

// assessmentPrompt builds the prompt shared by the AI-assisted modules.
func assessmentPrompt(target model.Target, focus string, aspects ...string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are auditing the website %s", target.URL)
	if target.BusinessName != "" {
		fmt.Fprintf(&sb, " of the business %q", target.BusinessName)
	}
	fmt.Fprintf(&sb, ".\nFocus on %s.\n", focus)
	if len(aspects) > 0 {
		sb.WriteString("Consider:\n")
		for _, a := range aspects {
			sb.WriteString("- ")
			sb.WriteString(a)
			sb.WriteString("\n")
		}
	}
	fmt.Fprintf(&sb, "Return at most %d insights.\n", maxAIInsights)
	sb.WriteString(assessmentSchema)
	return sb.String()
}
