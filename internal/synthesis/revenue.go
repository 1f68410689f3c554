package synthesis

import (
	"math"

	"github.com/nao1215/siteaudit/internal/model"
)

// Revenue projection defaults.
const (
	// DefaultBaselineRevenue is the assumed current revenue.
	DefaultBaselineRevenue = 100000.0

	defaultMultiple   = 5.0
	defaultTimeframe  = "6 months"
	defaultConfidence = 95

	projectedTimeframe  = "3-6 months"
	projectedConfidence = 92
)

// DefaultRevenueProjection returns the projection used when no conversion
// opportunity is available.
func DefaultRevenueProjection(baseline float64) model.RevenueProjection {
	return model.RevenueProjection{
		CurrentRevenue:   baseline,
		ProjectedRevenue: baseline * defaultMultiple,
		MultipleIncrease: defaultMultiple,
		Timeframe:        defaultTimeframe,
		ConfidenceLevel:  defaultConfidence,
	}
}

// ProjectRevenue projects revenue from the first conversion opportunity.
// Without opportunities it returns DefaultRevenueProjection. Rates that
// cannot produce a finite multiplier return a *DataError.
func ProjectRevenue(opps []model.ConversionOpportunity, baseline float64) (model.RevenueProjection, error) {
	if len(opps) == 0 {
		return DefaultRevenueProjection(baseline), nil
	}

	opp := opps[0]
	if !finite(opp.CurrentRate) {
		return model.RevenueProjection{}, &DataError{Field: "currentRate", Value: opp.CurrentRate, Reason: "not a finite number"}
	}
	if opp.CurrentRate <= 0 {
		return model.RevenueProjection{}, &DataError{Field: "currentRate", Value: opp.CurrentRate, Reason: "must be positive"}
	}
	if !finite(opp.ProjectedRate) {
		return model.RevenueProjection{}, &DataError{Field: "projectedRate", Value: opp.ProjectedRate, Reason: "not a finite number"}
	}

	multiple := opp.ProjectedRate / opp.CurrentRate
	return model.RevenueProjection{
		CurrentRevenue:   baseline,
		ProjectedRevenue: baseline * multiple,
		MultipleIncrease: multiple,
		Timeframe:        projectedTimeframe,
		ConfidenceLevel:  projectedConfidence,
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
