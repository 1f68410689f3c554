package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/siteaudit/internal/model"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter

	title cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		title:      cases.Title(language.English),
	}
}

// Write outputs the full result in Markdown format.
func (w *MarkdownWriter) Write(result *model.ScanResult) (int, error) {
	summary := model.NewSummary(result)
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result, summary)
	w.writeSummary(md, summary)
	w.writePerformance(md, result.PerformanceMetrics)
	w.writeInsights(md, summary)
	w.writeRecommendations(md, result.Recommendations)
	w.writeRevenue(md, result)
	w.writePresence(md, result)
	w.writeModules(md, result.Modules)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs the severity summary and insights in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Website Audit Summary")
	md.PlainText("")
	md.PlainTextf("**%s**: score %d/100", summary.URL, summary.Score)
	md.PlainText("")
	w.writeSummary(md, summary)
	w.writeInsights(md, summary)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.ScanResult, summary *model.Summary) {
	md.H1("Website Audit Report")
	md.PlainText("")

	rows := [][]string{
		{"Website", "`" + result.Target.URL + "`"},
	}
	if result.Target.BusinessName != "" {
		rows = append(rows, []string{"Business", result.Target.BusinessName})
	}
	rows = append(rows,
		[]string{"Scan ID", "`" + result.ID + "`"},
		[]string{"Scan Date", result.CompletedAt.Format("2006-01-02 15:04:05 MST")},
		[]string{"Score", "**" + strconv.Itoa(result.Score) + "/100**"},
		[]string{"Status", statusText(summary)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func statusText(summary *model.Summary) string {
	if n := len(summary.DegradedModules); n > 0 {
		return fmt.Sprintf("⚠️ Partial (%d module(s) degraded)", n)
	}
	return "✅ Complete"
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Severity Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(summary.CriticalCount)},
			{"🟠 High", strconv.Itoa(summary.HighCount)},
			{"🟡 Medium", strconv.Itoa(summary.MediumCount)},
			{"🔵 Low", strconv.Itoa(summary.LowCount)},
			{"**Total**", "**" + strconv.Itoa(summary.TotalInsights()) + "**"},
		},
	})
	md.PlainText("")

	if summary.HasInsights() {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Insight Severity Distribution"),
		piechart.WithShowData(true),
	)

	counts := map[model.Severity]int{
		model.SeverityCritical: summary.CriticalCount,
		model.SeverityHigh:     summary.HighCount,
		model.SeverityMedium:   summary.MediumCount,
		model.SeverityLow:      summary.LowCount,
	}
	for _, severity := range severityOrder {
		if n := counts[severity]; n > 0 {
			chart.LabelAndIntValue(w.title.String(severity.String()), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case summary.CriticalCount > 0:
		md.Cautionf(
			"%d critical issue(s) are costing conversions right now and need immediate attention.",
			summary.CriticalCount,
		)
	case summary.HighCount > 0:
		md.Warningf(
			"%d high-impact opportunity(ies) should be addressed first.",
			summary.HighCount,
		)
	case summary.MediumCount > 0:
		md.Importantf(
			"%d medium-impact improvement(s) found.",
			summary.MediumCount,
		)
	case summary.TotalInsights() > 0:
		md.Note("Only low-impact insights found.")
	default:
		md.Tip("No significant issues found.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePerformance(md *markdown.Markdown, m model.PerformanceMetrics) {
	md.H2("Performance")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Load Time", fmt.Sprintf("%.1fs", m.LoadTime)},
			{"LCP", fmt.Sprintf("%.1fs", m.CoreWebVitals.LCP)},
			{"FID", fmt.Sprintf("%.0fms", m.CoreWebVitals.FID)},
			{"CLS", fmt.Sprintf("%.2f", m.CoreWebVitals.CLS)},
			{"Lighthouse", strconv.Itoa(m.LighthouseScore)},
			{"Mobile", strconv.Itoa(m.MobileScore)},
			{"Security", strconv.Itoa(m.SecurityScore)},
		},
	})
	md.PlainText("")
}

var severityHeaders = map[model.Severity]string{
	model.SeverityCritical: "🔴",
	model.SeverityHigh:     "🟠",
	model.SeverityMedium:   "🟡",
	model.SeverityLow:      "🔵",
}

func (w *MarkdownWriter) writeInsights(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Insights")
	md.PlainText("")

	if !summary.HasInsights() {
		md.PlainText("No insights were produced.")
		md.PlainText("")
		return
	}

	for _, severity := range severityOrder {
		insights := summary.InsightsBySeverity(severity)
		if len(insights) == 0 {
			continue
		}

		md.PlainTextf("### %s %s", severityHeaders[severity], w.title.String(severity.String()))
		md.PlainText("")
		w.writeInsightsTable(md, insights)
	}
}

func (w *MarkdownWriter) writeInsightsTable(md *markdown.Markdown, insights []model.Insight) {
	rows := make([][]string, len(insights))
	for i, in := range insights {
		rows[i] = []string{
			in.Title,
			in.Category.String(),
			truncateString(orDash(in.Impact), 60),
			w.title.String(in.Effort.String()),
			strconv.Itoa(in.ROI) + "%",
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Title", "Category", "Impact", "Effort", "ROI"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, in := range insights {
		if in.Description != "" {
			md.Details(in.Title, in.Description)
		}
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, recs []model.Recommendation) {
	if len(recs) == 0 {
		return
	}

	md.H2("Recommendations")
	md.PlainText("")

	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			strconv.Itoa(r.Priority),
			r.Title,
			truncateString(orDash(r.Description), 60),
			w.title.String(r.Effort.String()),
			strconv.Itoa(r.ROI) + "%",
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Priority", "Action", "How", "Effort", "ROI"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeRevenue(md *markdown.Markdown, result *model.ScanResult) {
	md.H2("Revenue Projection")
	md.PlainText("")

	rp := result.RevenueProjections
	md.Table(markdown.TableSet{
		Header: []string{"Current", "Projected", "Multiple", "Timeframe", "Confidence"},
		Rows: [][]string{{
			fmt.Sprintf("$%.0f", rp.CurrentRevenue),
			fmt.Sprintf("$%.0f", rp.ProjectedRevenue),
			fmt.Sprintf("%.1fx", rp.MultipleIncrease),
			rp.Timeframe,
			strconv.Itoa(rp.ConfidenceLevel) + "%",
		}},
	})
	md.PlainText("")

	for _, opp := range result.ConversionOpportunities {
		md.PlainTextf("Conversion rate can move from **%.1f%%** to **%.1f%%**.", opp.CurrentRate, opp.ProjectedRate)
		md.PlainText("")
		if len(opp.Opportunities) > 0 {
			md.BulletList(opp.Opportunities...)
			md.PlainText("")
		}
	}
}

func (w *MarkdownWriter) writePresence(md *markdown.Markdown, result *model.ScanResult) {
	if result.LocalPresence == nil && result.MapsPresence == nil && result.SocialPresence == nil {
		return
	}

	md.H2("Online Presence")
	md.PlainText("")

	var rows [][]string
	if lp := result.LocalPresence; lp != nil {
		rows = append(rows, []string{"Google Business",
			fmt.Sprintf("%.1f★ from %d reviews, %d%% responded", lp.Rating, lp.ReviewCount, lp.ResponseRate)})
	}
	if mp := result.MapsPresence; mp != nil {
		rows = append(rows, []string{"Maps",
			fmt.Sprintf("%s, visibility %d", orDash(mp.Location), mp.VisibilityScore)})
	}
	if sp := result.SocialPresence; sp != nil {
		rows = append(rows, []string{"Social", fmt.Sprintf("%d%% platform coverage", sp.OverallScore)})
		for _, p := range sp.Profiles {
			rows = append(rows, []string{p.Platform.DisplayName(), p.ProfileURL})
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Channel", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeModules(md *markdown.Markdown, modules []model.ModuleReport) {
	if len(modules) == 0 {
		return
	}

	md.H2("Modules")
	md.PlainText("")

	rows := make([][]string, len(modules))
	for i, m := range modules {
		rows[i] = []string{m.Module, string(m.Status), m.Duration.String()}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Module", "Status", "Duration"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [siteaudit](https://github.com/nao1215/siteaudit)*")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
