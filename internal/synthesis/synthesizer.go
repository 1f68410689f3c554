package synthesis

import (
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/siteaudit/internal/model"
)

// Synthesizer merges partial results into a ScanResult.
type Synthesizer struct {
	logger          *slog.Logger
	dedupe          bool
	maxInsights     int
	baselineRevenue float64
	now             func() time.Time
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLogger sets the logger used to report data errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) {
		s.logger = logger
	}
}

// WithDedupe enables removal of insights sharing a category and title.
func WithDedupe(dedupe bool) Option {
	return func(s *Synthesizer) {
		s.dedupe = dedupe
	}
}

// WithMaxInsights caps the number of insights. Zero or less means unlimited.
func WithMaxInsights(n int) Option {
	return func(s *Synthesizer) {
		s.maxInsights = max(n, 0)
	}
}

// WithBaselineRevenue sets the assumed current revenue for projections.
// Non-positive values are ignored.
func WithBaselineRevenue(revenue float64) Option {
	return func(s *Synthesizer) {
		if revenue > 0 && finite(revenue) {
			s.baselineRevenue = revenue
		}
	}
}

// WithClock sets the clock used for the completion timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) {
		s.now = now
	}
}

// New creates a Synthesizer with the given options.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		logger:          slog.Default(),
		baselineRevenue: DefaultBaselineRevenue,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize builds the ScanResult for target from partials, which must be
// in completion order. startedAt is the time the scan began.
func (s *Synthesizer) Synthesize(target model.Target, partials []model.PartialResult, startedAt time.Time) *model.ScanResult {
	insights := mergeInsights(partials)
	if s.dedupe {
		insights = dedupeInsights(insights)
	}
	if s.maxInsights > 0 && len(insights) > s.maxInsights {
		insights = insights[:s.maxInsights]
	}

	sub := resolveSubsections(partials)
	result := &model.ScanResult{
		ID:                      model.NewScanID(),
		Target:                  target,
		Insights:                insights,
		Recommendations:         BuildRecommendations(insights),
		ConversionOpportunities: mergeConversions(partials),
		LocalPresence:           sub.local,
		MapsPresence:            sub.maps,
		SocialPresence:          sub.social,
		Modules:                 moduleReports(partials),
		StartedAt:               startedAt,
	}
	if sub.visual != nil {
		result.VisualData = *sub.visual
	}
	if sub.performance != nil {
		result.PerformanceMetrics = *sub.performance
	}
	if sub.competitor != nil {
		result.CompetitorAnalysis = *sub.competitor
	}

	result.Score = ComputeScore(result.Insights, result.PerformanceMetrics)
	result.RevenueProjections = s.projectRevenue(result.ConversionOpportunities)
	result.CompletedAt = s.now()
	return result
}

// projectRevenue projects revenue, falling back to the default projection
// on unusable conversion data.
func (s *Synthesizer) projectRevenue(opps []model.ConversionOpportunity) model.RevenueProjection {
	projection, err := ProjectRevenue(opps, s.baselineRevenue)
	if err != nil {
		var dataErr *DataError
		if errors.As(err, &dataErr) {
			s.logger.Warn("unusable conversion data, using default revenue projection",
				"field", dataErr.Field,
				"value", dataErr.Value,
				"reason", dataErr.Reason,
			)
		} else {
			s.logger.Warn("revenue projection failed, using default", "error", err)
		}
		return DefaultRevenueProjection(s.baselineRevenue)
	}
	return projection
}
