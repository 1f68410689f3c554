package model

import "time"

// Summary is a condensed view of a ScanResult.
// It is what the text writer prints and what the history database stores
// next to the full result for quick listing and comparison.
type Summary struct {
	// URL is the audited site.
	URL string `json:"url"`

	// Domain is the registrable domain of the site.
	Domain string `json:"domain"`

	// DateScanned is when the scan completed.
	DateScanned time.Time `json:"dateScanned"`

	// Score is the overall health score.
	Score int `json:"score"`

	// === Severity Summary ===

	CriticalCount int `json:"criticalCount"`
	HighCount     int `json:"highCount"`
	MediumCount   int `json:"mediumCount"`
	LowCount      int `json:"lowCount"`

	// CategoryCounts is the number of insights per category.
	CategoryCounts map[Category]int `json:"categoryCounts,omitempty"`

	// === Findings ===

	// Insights are the synthesized insights in report order.
	Insights []Insight `json:"insights,omitempty"`

	// DegradedModules lists modules that fell back to default data.
	DegradedModules []string `json:"degradedModules,omitempty"`

	// ProjectedMultiple is the revenue multiple from the projection.
	ProjectedMultiple float64 `json:"projectedMultiple"`
}

// NewSummary creates a Summary from a ScanResult.
func NewSummary(result *ScanResult) *Summary {
	s := &Summary{
		URL:               result.Target.URL,
		Domain:            result.Target.Domain(),
		DateScanned:       result.CompletedAt,
		Score:             result.Score,
		Insights:          result.Insights,
		DegradedModules:   result.DegradedModules(),
		ProjectedMultiple: result.RevenueProjections.MultipleIncrease,
		CategoryCounts:    make(map[Category]int),
	}
	s.countBySeverity()
	return s
}

// countBySeverity counts insights by severity level and category.
func (s *Summary) countBySeverity() {
	for _, in := range s.Insights {
		switch in.Severity {
		case SeverityCritical:
			s.CriticalCount++
		case SeverityHigh:
			s.HighCount++
		case SeverityMedium:
			s.MediumCount++
		case SeverityLow:
			s.LowCount++
		}
		s.CategoryCounts[in.Category]++
	}
}

// TotalInsights returns the total number of insights.
func (s *Summary) TotalInsights() int {
	return len(s.Insights)
}

// HasInsights returns true if there are any insights.
func (s *Summary) HasInsights() bool {
	return len(s.Insights) > 0
}

// InsightsBySeverity returns insights filtered by severity.
func (s *Summary) InsightsBySeverity(severity Severity) []Insight {
	var result []Insight
	for _, in := range s.Insights {
		if in.Severity == severity {
			result = append(result, in)
		}
	}
	return result
}

// SeverityMap returns the severity counts keyed by lowercase name,
// in the shape stored in the history database.
func (s *Summary) SeverityMap() map[string]int {
	return map[string]int{
		SeverityCritical.String(): s.CriticalCount,
		SeverityHigh.String():     s.HighCount,
		SeverityMedium.String():   s.MediumCount,
		SeverityLow.String():      s.LowCount,
	}
}
