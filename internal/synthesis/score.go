package synthesis

import "github.com/nao1215/siteaudit/internal/model"

// Scoring constants.
const (
	// BaseScore is the score of a site with no insights and no bonuses.
	BaseScore = 70

	lighthouseBonusThreshold = 90
	lighthouseBonus          = 10
	mobileBonusThreshold     = 90
	mobileBonus              = 5
	securityBonusThreshold   = 95
	securityBonus            = 5
)

// severityPenalty is the score deduction for one insight. Any severity
// below medium, including an unrecognized one, costs one point.
func severityPenalty(s model.Severity) int {
	switch s {
	case model.SeverityCritical:
		return 15
	case model.SeverityHigh:
		return 8
	case model.SeverityMedium:
		return 3
	default:
		return 1
	}
}

// ComputeScore returns the overall health score in [0, 100].
// The result depends only on the multiset of insight severities and the
// three metric scores, never on insight order.
func ComputeScore(insights []model.Insight, metrics model.PerformanceMetrics) int {
	score := BaseScore
	for _, in := range insights {
		score -= severityPenalty(in.Severity)
	}

	if metrics.LighthouseScore > lighthouseBonusThreshold {
		score += lighthouseBonus
	}
	if metrics.MobileScore > mobileBonusThreshold {
		score += mobileBonus
	}
	if metrics.SecurityScore > securityBonusThreshold {
		score += securityBonus
	}

	return min(max(score, 0), 100)
}
