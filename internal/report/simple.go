package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/siteaudit/internal/model"
)

const lineWidth = 70

// SimpleWriter outputs human-readable text reports for terminal display.
// Output is plain ASCII so it can be piped to files or other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no content are shown.
	showEmpty bool

	// verbose adds insight descriptions and the recommendation list.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full result in human-readable format.
func (w *SimpleWriter) Write(result *model.ScanResult) (int, error) {
	summary := model.NewSummary(result)

	var sb strings.Builder
	w.writeHeader(&sb, result, summary)
	w.writeSummary(&sb, summary)
	w.writePerformance(&sb, result.PerformanceMetrics)
	w.writeInsights(&sb, summary)
	w.writeRecommendations(&sb, result.Recommendations)
	w.writeRevenue(&sb, result)
	w.writePresence(&sb, result)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// WriteSummary outputs only the severity summary and insights.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Website: %s\n", summary.URL))
	sb.WriteString(fmt.Sprintf("Score:   %d/100\n\n", summary.Score))
	w.writeSummary(&sb, summary)
	w.writeInsights(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

func sectionTitle(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", lineWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", lineWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.ScanResult, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")
	sb.WriteString("                        WEBSITE AUDIT REPORT\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Website:   %s\n", result.Target.URL))
	if result.Target.BusinessName != "" {
		sb.WriteString(fmt.Sprintf("Business:  %s\n", result.Target.BusinessName))
	}
	sb.WriteString(fmt.Sprintf("Scan ID:   %s\n", result.ID))
	sb.WriteString(fmt.Sprintf("Scan Date: %s\n", result.CompletedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", result.Duration().Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Score:     %d/100\n", result.Score))

	if len(summary.DegradedModules) > 0 {
		sb.WriteString(fmt.Sprintf("Status:    Partial (%s degraded)\n", strings.Join(summary.DegradedModules, ", ")))
	} else {
		sb.WriteString("Status:    Complete\n")
	}

	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, summary *model.Summary) {
	sectionTitle(sb, "SEVERITY SUMMARY")

	sb.WriteString(fmt.Sprintf("  CRITICAL: %d\n", summary.CriticalCount))
	sb.WriteString(fmt.Sprintf("  HIGH:     %d\n", summary.HighCount))
	sb.WriteString(fmt.Sprintf("  MEDIUM:   %d\n", summary.MediumCount))
	sb.WriteString(fmt.Sprintf("  LOW:      %d\n", summary.LowCount))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:    %d insights\n", summary.TotalInsights()))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writePerformance(sb *strings.Builder, m model.PerformanceMetrics) {
	if m == (model.PerformanceMetrics{}) && !w.showEmpty {
		return
	}

	sectionTitle(sb, "PERFORMANCE")

	sb.WriteString(fmt.Sprintf("  Load time:   %.1fs\n", m.LoadTime))
	sb.WriteString(fmt.Sprintf("  LCP:         %.1fs\n", m.CoreWebVitals.LCP))
	sb.WriteString(fmt.Sprintf("  FID:         %.0fms\n", m.CoreWebVitals.FID))
	sb.WriteString(fmt.Sprintf("  CLS:         %.2f\n", m.CoreWebVitals.CLS))
	sb.WriteString(fmt.Sprintf("  Lighthouse:  %d\n", m.LighthouseScore))
	sb.WriteString(fmt.Sprintf("  Mobile:      %d\n", m.MobileScore))
	sb.WriteString(fmt.Sprintf("  Security:    %d\n", m.SecurityScore))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeInsights(sb *strings.Builder, summary *model.Summary) {
	if !summary.HasInsights() && !w.showEmpty {
		return
	}

	sectionTitle(sb, "INSIGHTS")

	for _, severity := range severityOrder {
		insights := summary.InsightsBySeverity(severity)
		if len(insights) == 0 && !w.showEmpty {
			continue
		}
		w.writeInsightsForSeverity(sb, severity, insights)
	}
}

func (w *SimpleWriter) writeInsightsForSeverity(sb *strings.Builder, severity model.Severity, insights []model.Insight) {
	sb.WriteString(fmt.Sprintf("[%s] %s\n", severityIndicator(severity), strings.ToUpper(severity.String())))

	if len(insights) == 0 {
		sb.WriteString("  No insights\n\n")
		return
	}

	for _, in := range insights {
		sb.WriteString(fmt.Sprintf("  * %s (%s)\n", in.Title, in.Category))
		if in.Impact != "" {
			sb.WriteString(fmt.Sprintf("    Impact: %s\n", in.Impact))
		}
		if w.verbose && in.Description != "" {
			sb.WriteString(fmt.Sprintf("    Description: %s\n", in.Description))
		}
	}
	sb.WriteString("\n")
}

func severityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityCritical:
		return "!!!"
	case model.SeverityHigh:
		return "!!"
	case model.SeverityMedium:
		return "!"
	case model.SeverityLow:
		return "-"
	default:
		return "?"
	}
}

func (w *SimpleWriter) writeRecommendations(sb *strings.Builder, recs []model.Recommendation) {
	if !w.verbose || (len(recs) == 0 && !w.showEmpty) {
		return
	}

	sectionTitle(sb, "RECOMMENDATIONS")

	for _, r := range recs {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", r.Priority, r.Title))
		sb.WriteString(fmt.Sprintf("     %s (effort %s, ROI %d%%)\n", r.Description, r.Effort, r.ROI))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeRevenue(sb *strings.Builder, result *model.ScanResult) {
	sectionTitle(sb, "REVENUE PROJECTION")

	rp := result.RevenueProjections
	sb.WriteString(fmt.Sprintf("  Current:    $%.0f\n", rp.CurrentRevenue))
	sb.WriteString(fmt.Sprintf("  Projected:  $%.0f (%.1fx in %s)\n", rp.ProjectedRevenue, rp.MultipleIncrease, rp.Timeframe))
	sb.WriteString(fmt.Sprintf("  Confidence: %d%%\n", rp.ConfidenceLevel))

	for _, opp := range result.ConversionOpportunities {
		sb.WriteString(fmt.Sprintf("  Conversion: %.1f%% -> %.1f%%\n", opp.CurrentRate, opp.ProjectedRate))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writePresence(sb *strings.Builder, result *model.ScanResult) {
	if result.LocalPresence == nil && result.MapsPresence == nil && result.SocialPresence == nil {
		return
	}

	sectionTitle(sb, "ONLINE PRESENCE")

	if lp := result.LocalPresence; lp != nil {
		sb.WriteString(fmt.Sprintf("  Google Business: %.1f stars, %d reviews, %d%% responded\n",
			lp.Rating, lp.ReviewCount, lp.ResponseRate))
	}
	if mp := result.MapsPresence; mp != nil {
		sb.WriteString(fmt.Sprintf("  Maps:            %s (visibility %d)\n", mp.Location, mp.VisibilityScore))
	}
	if sp := result.SocialPresence; sp != nil {
		sb.WriteString(fmt.Sprintf("  Social:          %d%% platform coverage\n", sp.OverallScore))
		for _, p := range sp.Profiles {
			sb.WriteString(fmt.Sprintf("    [+] %s %s\n", p.Platform.DisplayName(), p.ProfileURL))
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by siteaudit\n")
	sb.WriteString("https://github.com/nao1215/siteaudit\n")
	sb.WriteString(strings.Repeat("=", lineWidth))
	sb.WriteString("\n")
}
