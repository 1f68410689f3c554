package synthesis

import (
	"strconv"

	"github.com/nao1215/siteaudit/internal/model"
)

// BuildRecommendations restates each insight as a recommendation, in the
// same order.
func BuildRecommendations(insights []model.Insight) []model.Recommendation {
	recs := make([]model.Recommendation, 0, len(insights))
	for i, in := range insights {
		recs = append(recs, model.Recommendation{
			ID:          "rec_" + strconv.Itoa(i),
			Title:       in.Title + " - Priority Action",
			Description: in.Solution,
			Impact:      in.Impact,
			Effort:      in.Effort,
			ROI:         in.ROI,
			Priority:    priorityFor(in.Severity),
			Category:    in.Category,
		})
	}
	return recs
}

func priorityFor(s model.Severity) int {
	switch s {
	case model.SeverityCritical:
		return model.PriorityUrgent
	case model.SeverityHigh:
		return model.PriorityHigh
	default:
		return model.PriorityStandard
	}
}
