package model

import "time"

// ModuleStatus describes how an analysis module finished.
type ModuleStatus string

const (
	// ModuleStatusOK indicates the module produced its full analysis.
	ModuleStatusOK ModuleStatus = "ok"
	// ModuleStatusDegraded indicates the module fell back to default data
	// because a collaborator (usually the AI provider) failed.
	ModuleStatusDegraded ModuleStatus = "degraded"
	// ModuleStatusFailed indicates the module errored, panicked, or timed out
	// and was replaced by the generic fallback.
	ModuleStatusFailed ModuleStatus = "failed"
)

// PartialResult is the output of one analysis module.
// Only Insights is always meaningful; each optional subsection is nil when
// the module does not contribute it.
type PartialResult struct {
	// Module is the name of the module that produced this result.
	Module string `json:"module"`

	// Priority is the module's registration index. When several modules
	// define the same singleton subsection, the highest priority wins.
	Priority int `json:"priority"`

	Insights                []Insight               `json:"insights"`
	VisualData              *VisualAnalysis         `json:"visualData,omitempty"`
	PerformanceMetrics      *PerformanceMetrics     `json:"performanceMetrics,omitempty"`
	ConversionOpportunities []ConversionOpportunity `json:"conversionOpportunities,omitempty"`
	CompetitorAnalysis      *CompetitorAnalysis     `json:"competitorAnalysis,omitempty"`
	LocalPresence           *LocalPresence          `json:"localPresence,omitempty"`
	MapsPresence            *MapsPresence           `json:"mapsPresence,omitempty"`
	SocialPresence          *SocialPresence         `json:"socialPresence,omitempty"`

	// Status reports whether the result is complete, degraded, or a fallback.
	Status ModuleStatus `json:"status"`

	// Error contains the failure message when Status is not ok.
	Error string `json:"error,omitempty"`

	// Duration is how long the module ran.
	Duration time.Duration `json:"duration"`
}

// ModuleReport is the per-module summary attached to a ScanResult.
type ModuleReport struct {
	Module   string        `json:"module"`
	Priority int           `json:"priority"`
	Status   ModuleStatus  `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report returns the module summary for this result.
func (p PartialResult) Report() ModuleReport {
	return ModuleReport{
		Module:   p.Module,
		Priority: p.Priority,
		Status:   p.Status,
		Error:    p.Error,
		Duration: p.Duration,
	}
}
