package model

import (
	"time"

	"github.com/google/uuid"
)

// ScanResult is the unified outcome of one website audit.
// It is built once by the synthesizer and never mutated afterwards;
// report writers and the HTTP API consume it as-is.
type ScanResult struct {
	// ID uniquely identifies this scan.
	ID string `json:"id"`

	// Target is the audited website.
	Target Target `json:"target"`

	// Score is the overall health score in the range 0 to 100.
	Score int `json:"score"`

	Insights                []Insight               `json:"insights"`
	Recommendations         []Recommendation        `json:"recommendations"`
	VisualData              VisualAnalysis          `json:"visualData"`
	PerformanceMetrics      PerformanceMetrics      `json:"performanceMetrics"`
	ConversionOpportunities []ConversionOpportunity `json:"conversionOpportunities"`
	CompetitorAnalysis      CompetitorAnalysis      `json:"competitorAnalysis"`
	RevenueProjections      RevenueProjection       `json:"revenueProjections"`

	// LocalPresence is set only when the Google Business module ran.
	LocalPresence *LocalPresence `json:"localPresence,omitempty"`

	// MapsPresence is set only when the maps module ran.
	MapsPresence *MapsPresence `json:"mapsPresence,omitempty"`

	// SocialPresence is set only when the social module ran.
	SocialPresence *SocialPresence `json:"socialPresence,omitempty"`

	// Modules lists how each module finished, ordered by priority.
	Modules []ModuleReport `json:"modules"`

	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

// NewScanID returns a fresh scan identifier.
func NewScanID() string {
	return uuid.NewString()
}

// Duration returns how long the scan took.
func (r *ScanResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// DegradedModules returns the names of modules that did not finish cleanly.
func (r *ScanResult) DegradedModules() []string {
	var names []string
	for _, m := range r.Modules {
		if m.Status != ModuleStatusOK {
			names = append(names, m.Module)
		}
	}
	return names
}

// SeverityCounts returns the number of insights per severity.
func (r *ScanResult) SeverityCounts() map[Severity]int {
	counts := make(map[Severity]int, 4)
	for _, in := range r.Insights {
		counts[in.Severity]++
	}
	return counts
}
