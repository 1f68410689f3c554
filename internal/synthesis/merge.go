package synthesis

import (
	"sort"

	"github.com/nao1215/siteaudit/internal/model"
)

// mergeInsights concatenates insights in completion order.
func mergeInsights(partials []model.PartialResult) []model.Insight {
	total := 0
	for _, p := range partials {
		total += len(p.Insights)
	}
	out := make([]model.Insight, 0, total)
	for _, p := range partials {
		out = append(out, p.Insights...)
	}
	return out
}

// dedupeInsights removes insights sharing a category and title. The first
// occurrence keeps its position; a later, more severe duplicate replaces it.
func dedupeInsights(insights []model.Insight) []model.Insight {
	seen := make(map[string]int) // key -> index in result
	result := make([]model.Insight, 0, len(insights))

	for _, in := range insights {
		key := in.Key()
		if idx, exists := seen[key]; exists {
			if in.Severity > result[idx].Severity {
				result[idx] = in
			}
			continue
		}
		seen[key] = len(result)
		result = append(result, in)
	}

	return result
}

// mergeConversions concatenates conversion opportunities in completion order.
func mergeConversions(partials []model.PartialResult) []model.ConversionOpportunity {
	out := make([]model.ConversionOpportunity, 0)
	for _, p := range partials {
		out = append(out, p.ConversionOpportunities...)
	}
	return out
}

// byPriority returns partials sorted by ascending priority without
// modifying the input.
func byPriority(partials []model.PartialResult) []model.PartialResult {
	sorted := make([]model.PartialResult, len(partials))
	copy(sorted, partials)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

// subsections holds the resolved singleton subsections.
type subsections struct {
	visual      *model.VisualAnalysis
	performance *model.PerformanceMetrics
	competitor  *model.CompetitorAnalysis
	local       *model.LocalPresence
	maps        *model.MapsPresence
	social      *model.SocialPresence
}

// resolveSubsections picks, for every singleton subsection, the value from
// the highest-priority partial that defines it. Completion order is ignored.
func resolveSubsections(partials []model.PartialResult) subsections {
	var s subsections
	for _, p := range byPriority(partials) {
		if p.VisualData != nil {
			s.visual = p.VisualData
		}
		if p.PerformanceMetrics != nil {
			s.performance = p.PerformanceMetrics
		}
		if p.CompetitorAnalysis != nil {
			s.competitor = p.CompetitorAnalysis
		}
		if p.LocalPresence != nil {
			s.local = p.LocalPresence
		}
		if p.MapsPresence != nil {
			s.maps = p.MapsPresence
		}
		if p.SocialPresence != nil {
			s.social = p.SocialPresence
		}
	}
	return s
}

// moduleReports summarizes every partial, ordered by priority.
func moduleReports(partials []model.PartialResult) []model.ModuleReport {
	reports := make([]model.ModuleReport, 0, len(partials))
	for _, p := range byPriority(partials) {
		reports = append(reports, p.Report())
	}
	return reports
}
