package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/siteaudit/internal/config"
	"github.com/nao1215/siteaudit/internal/database"
	"github.com/nao1215/siteaudit/internal/model"
	"github.com/spf13/cobra"
)

// Constants for score direction and summary messages.
const (
	directionWorsened  = "worsened"
	directionImproved  = "improved"
	directionUnchanged = "unchanged"
	noInsightsMessage  = "No insights"
)

// NewCompareCmd creates the compare command.
// This command compares scan results with historical data stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [website-url]",
		Short: "Compare scan results with historical data",
		Long: `Compare displays differences between the latest and an earlier scan of a website.

It reads the scan history and shows:
- The change in the overall score
- New insights that appeared since the earlier scan
- Resolved insights that are no longer reported
- Changes in the number of insights per severity

The comparison requires at least two scans of the website. Use
'siteaudit scan' to perform scans and save results.

Examples:
  # Compare the latest two scans of a website
  siteaudit compare https://example.com

  # List the scan history of a website
  siteaudit compare --list example.com

  # Compare with a specific historical scan by ID
  siteaudit compare --with-scan-id 5 example.com

  # Compare with the first scan since a date
  siteaudit compare --since "2026-01-01" example.com

  # Output the comparison in JSON format
  siteaudit compare --json example.com

  # List every website in the history
  siteaudit compare --list-targets`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List scan history for the specified website")
	cmd.Flags().BoolP("list-targets", "L", false,
		"List all scanned websites in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-scan-id", "i", 0,
		"Compare with a specific scan by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first scan after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// compareOptions selects the earlier scan and the output format.
type compareOptions struct {
	WithScanID int64
	Since      string
	JSON       bool
	Markdown   bool
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	listTargets, err := cmd.Flags().GetBool("list-targets")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var url string
	if !listTargets {
		if len(args) == 0 {
			return errors.New("website URL is required (use --list-targets to see scanned websites)")
		}
		target, err := model.NewTarget(args[0])
		if err != nil {
			return fmt.Errorf("invalid website URL: %w", err)
		}
		url = target.URL
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if listTargets {
		return listScannedTargets(ctx, db, out)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listScanHistory(ctx, db, url, out)
	}

	var opts compareOptions
	if opts.JSON, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if opts.Markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if opts.JSON && opts.Markdown {
		return config.ErrConflictingReportFormats
	}
	if opts.WithScanID, err = cmd.Flags().GetInt64("with-scan-id"); err != nil {
		return err
	}
	if opts.Since, err = cmd.Flags().GetString("since"); err != nil {
		return err
	}

	return runComparison(ctx, db, url, opts, out)
}

// listScannedTargets lists all websites that have scan records in the database.
func listScannedTargets(ctx context.Context, db *database.ScanDB, out io.Writer) error {
	targets, err := db.ListScannedTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list targets: %w", err)
	}

	if len(targets) == 0 {
		fmt.Fprintln(out, "No scanned websites found in the database.")
		fmt.Fprintln(out, "\nUse 'siteaudit scan <website-url>' to scan a website.")
		return nil
	}

	fmt.Fprintf(out, "Scanned websites (%d):\n\n", len(targets))
	for _, target := range targets {
		fmt.Fprintf(out, "  • %s\n", target)
	}
	fmt.Fprintln(out, "\nUse 'siteaudit compare --list <website-url>' to see the scan history of a website.")
	return nil
}

// listScanHistory lists all scan records for a website.
func listScanHistory(ctx context.Context, db *database.ScanDB, url string, out io.Writer) error {
	history, err := db.GetScanHistoryWithMetadata(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(history) == 0 {
		fmt.Fprintf(out, "No scan history found for %s\n", url)
		fmt.Fprintln(out, "\nUse 'siteaudit scan' to scan this website.")
		return nil
	}

	fmt.Fprintf(out, "Scan history for %s (%d scans):\n\n", url, len(history))
	fmt.Fprintf(out, "  %-6s  %-20s  %-6s  %s\n", "ID", "Date", "Score", "Insights")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))

	for _, meta := range history {
		fmt.Fprintf(out, "  %-6d  %-20s  %-6d  %s\n",
			meta.ID,
			meta.ScannedAt.Format("2006-01-02 15:04:05"),
			meta.Score,
			formatSeveritySummary(meta.SeveritySummary),
		)
	}

	fmt.Fprintln(out, "\nUse 'siteaudit compare <website-url>' to compare the latest two scans.")
	fmt.Fprintln(out, "Use 'siteaudit compare --with-scan-id <id> <website-url>' to compare with a specific scan.")
	return nil
}

// formatSeveritySummary formats the severity counts into a short string.
func formatSeveritySummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	for _, s := range []model.Severity{model.SeverityCritical, model.SeverityHigh, model.SeverityMedium, model.SeverityLow} {
		if v := summary[s.String()]; v > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", strings.ToUpper(s.String()[:1]), v))
		}
	}

	if len(parts) == 0 {
		return noInsightsMessage
	}
	return strings.Join(parts, " ")
}

// runComparison compares the latest scan of url with an earlier one.
func runComparison(ctx context.Context, db *database.ScanDB, url string, opts compareOptions, out io.Writer) error {
	history, err := db.GetScanHistory(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to get scan history: %w", err)
	}

	if len(history) == 0 {
		return fmt.Errorf("no scan history found for %s", url)
	}

	if len(history) < 2 && opts.WithScanID == 0 && opts.Since == "" {
		return fmt.Errorf("at least 2 scans are required for comparison (found %d)", len(history))
	}

	current := history[0]
	var previous *model.ScanResult

	switch {
	case opts.WithScanID > 0:
		previous, err = db.GetScanResultByID(ctx, opts.WithScanID)
		if err != nil {
			return fmt.Errorf("failed to get scan with ID %d: %w", opts.WithScanID, err)
		}
		if previous == nil {
			return fmt.Errorf("scan with ID %d not found", opts.WithScanID)
		}
		if previous.Target.URL != url {
			return fmt.Errorf("scan ID %d belongs to %s, not %s", opts.WithScanID, previous.Target.URL, url)
		}
		if previous.ID == current.ID {
			return fmt.Errorf("scan ID %d is the latest scan; choose an earlier one", opts.WithScanID)
		}
	case opts.Since != "":
		since, err := time.Parse("2006-01-02", opts.Since)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// History is newest first; walk it backwards to find the oldest match.
		for i := len(history) - 1; i >= 0; i-- {
			if !history[i].CompletedAt.Before(since) {
				previous = history[i]
				break
			}
		}
		if previous == nil {
			return fmt.Errorf("no scans found since %s", opts.Since)
		}
		if previous == current {
			return fmt.Errorf("only one scan found since %s; at least 2 scans are required for comparison", opts.Since)
		}
	default:
		previous = history[1]
	}

	comparison := compareResults(previous, current)

	switch {
	case opts.JSON:
		return outputComparisonJSON(out, comparison)
	case opts.Markdown:
		return outputComparisonMarkdown(out, comparison)
	default:
		return outputComparisonText(out, comparison)
	}
}

// ComparisonResult holds the result of comparing two scans of a website.
type ComparisonResult struct {
	// URL is the scanned website.
	URL string `json:"url"`

	// PreviousScan describes the earlier scan.
	PreviousScan ScanSnapshot `json:"previousScan"`

	// CurrentScan describes the latest scan.
	CurrentScan ScanSnapshot `json:"currentScan"`

	// NewInsights are reported by the latest scan only.
	NewInsights []model.Insight `json:"newInsights,omitempty"`

	// ResolvedInsights are reported by the earlier scan only.
	ResolvedInsights []model.Insight `json:"resolvedInsights,omitempty"`

	// UnchangedCount is the number of insights reported by both scans.
	UnchangedCount int `json:"unchangedCount"`

	// Change describes the overall movement between the scans.
	Change ScoreChange `json:"change"`
}

// ScanSnapshot contains the figures of one scan used in a comparison.
type ScanSnapshot struct {
	ScanID        string    `json:"scanId"`
	DateScanned   time.Time `json:"dateScanned"`
	Score         int       `json:"score"`
	TotalInsights int       `json:"totalInsights"`
	CriticalCount int       `json:"criticalCount"`
	HighCount     int       `json:"highCount"`
	MediumCount   int       `json:"mediumCount"`
	LowCount      int       `json:"lowCount"`
}

// ScoreChange describes the change between two scans.
type ScoreChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	ScoreDelta    int `json:"scoreDelta"`
	CriticalDelta int `json:"criticalDelta"`
	HighDelta     int `json:"highDelta"`
	MediumDelta   int `json:"mediumDelta"`
	LowDelta      int `json:"lowDelta"`
}

func newSnapshot(r *model.ScanResult) ScanSnapshot {
	summary := model.NewSummary(r)
	return ScanSnapshot{
		ScanID:        r.ID,
		DateScanned:   r.CompletedAt,
		Score:         r.Score,
		TotalInsights: summary.TotalInsights(),
		CriticalCount: summary.CriticalCount,
		HighCount:     summary.HighCount,
		MediumCount:   summary.MediumCount,
		LowCount:      summary.LowCount,
	}
}

// compareResults compares two scans and generates a comparison result.
// Insights are matched by category and title.
func compareResults(previous, current *model.ScanResult) *ComparisonResult {
	result := &ComparisonResult{
		URL:          current.Target.URL,
		PreviousScan: newSnapshot(previous),
		CurrentScan:  newSnapshot(current),
	}

	previousKeys := make(map[string]bool, len(previous.Insights))
	for _, in := range previous.Insights {
		previousKeys[in.Key()] = true
	}
	currentKeys := make(map[string]bool, len(current.Insights))
	for _, in := range current.Insights {
		currentKeys[in.Key()] = true
	}

	seen := make(map[string]bool)
	for _, in := range current.Insights {
		if previousKeys[in.Key()] || seen[in.Key()] {
			continue
		}
		seen[in.Key()] = true
		result.NewInsights = append(result.NewInsights, in)
	}
	clear(seen)
	for _, in := range previous.Insights {
		if seen[in.Key()] {
			continue
		}
		seen[in.Key()] = true
		if currentKeys[in.Key()] {
			result.UnchangedCount++
		} else {
			result.ResolvedInsights = append(result.ResolvedInsights, in)
		}
	}

	sortBySeverity(result.NewInsights)
	sortBySeverity(result.ResolvedInsights)
	result.Change = calculateChange(result.PreviousScan, result.CurrentScan)
	return result
}

func sortBySeverity(insights []model.Insight) {
	slices.SortStableFunc(insights, func(a, b model.Insight) int {
		return int(b.Severity) - int(a.Severity)
	})
}

// calculateChange calculates the change between two scans. The score
// decides the direction; equal scores fall back to weighted severity counts.
func calculateChange(previous, current ScanSnapshot) ScoreChange {
	change := ScoreChange{
		ScoreDelta:    current.Score - previous.Score,
		CriticalDelta: current.CriticalCount - previous.CriticalCount,
		HighDelta:     current.HighCount - previous.HighCount,
		MediumDelta:   current.MediumCount - previous.MediumCount,
		LowDelta:      current.LowCount - previous.LowCount,
	}

	weight := func(s ScanSnapshot) int {
		return s.CriticalCount*100 + s.HighCount*50 + s.MediumCount*10 + s.LowCount*5
	}

	switch {
	case change.ScoreDelta > 0:
		change.Direction = directionImproved
	case change.ScoreDelta < 0:
		change.Direction = directionWorsened
	case weight(current) < weight(previous):
		change.Direction = directionImproved
	case weight(current) > weight(previous):
		change.Direction = directionWorsened
	default:
		change.Direction = directionUnchanged
	}
	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(out)

	md.H1("Scan Comparison: " + result.URL)
	md.PlainText("")
	md.H2("Summary")
	md.PlainText("")
	md.PlainTextf("**Status:** %s", formatDirection(result.Change.Direction))
	md.PlainText("")

	prev, cur, change := result.PreviousScan, result.CurrentScan, result.Change
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Date", prev.DateScanned.Format("2006-01-02 15:04"), cur.DateScanned.Format("2006-01-02 15:04"), "-"},
			{"Score", strconv.Itoa(prev.Score), strconv.Itoa(cur.Score), formatDelta(change.ScoreDelta)},
			{"Critical", strconv.Itoa(prev.CriticalCount), strconv.Itoa(cur.CriticalCount), formatDelta(change.CriticalDelta)},
			{"High", strconv.Itoa(prev.HighCount), strconv.Itoa(cur.HighCount), formatDelta(change.HighDelta)},
			{"Medium", strconv.Itoa(prev.MediumCount), strconv.Itoa(cur.MediumCount), formatDelta(change.MediumDelta)},
			{"Low", strconv.Itoa(prev.LowCount), strconv.Itoa(cur.LowCount), formatDelta(change.LowDelta)},
			{
				"**Total**",
				"**" + strconv.Itoa(prev.TotalInsights) + "**",
				"**" + strconv.Itoa(cur.TotalInsights) + "**",
				"**" + formatDelta(cur.TotalInsights-prev.TotalInsights) + "**",
			},
		},
	})

	if len(result.NewInsights) > 0 {
		md.PlainText("")
		md.H2(fmt.Sprintf("New Insights (%d)", len(result.NewInsights)))
		md.PlainText("")
		items := make([]string, 0, len(result.NewInsights))
		for _, in := range result.NewInsights {
			items = append(items, fmt.Sprintf("**[%s]** %s (%s)", in.Severity, in.Title, in.Category))
		}
		md.BulletList(items...)
	}

	if len(result.ResolvedInsights) > 0 {
		md.PlainText("")
		md.H2(fmt.Sprintf("Resolved Insights (%d)", len(result.ResolvedInsights)))
		md.PlainText("")
		items := make([]string, 0, len(result.ResolvedInsights))
		for _, in := range result.ResolvedInsights {
			items = append(items, fmt.Sprintf("~~**[%s]** %s (%s)~~", in.Severity, in.Title, in.Category))
		}
		md.BulletList(items...)
	}

	if result.UnchangedCount > 0 {
		md.PlainText("")
		md.HorizontalRule()
		md.PlainText("")
		md.PlainTextf("*%d insights unchanged*", result.UnchangedCount)
	}

	return md.Build()
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Scan Comparison: %s\n", result.URL)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nStatus: %s\n", formatDirection(result.Change.Direction))

	fmt.Fprintf(out, "\nPrevious scan: %s\n", result.PreviousScan.DateScanned.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current scan:  %s\n", result.CurrentScan.DateScanned.Format("2006-01-02 15:04:05"))

	prev, cur, change := result.PreviousScan, result.CurrentScan, result.Change
	row := func(label string, p, c int, delta string) {
		fmt.Fprintf(out, "  %-10s  %-10d  %-10d  %-10s\n", label, p, c, delta)
	}

	fmt.Fprintln(out, "\nSummary:")
	fmt.Fprintf(out, "  %-10s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	row("Score", prev.Score, cur.Score, formatDelta(change.ScoreDelta))
	row("Critical", prev.CriticalCount, cur.CriticalCount, formatDelta(change.CriticalDelta))
	row("High", prev.HighCount, cur.HighCount, formatDelta(change.HighDelta))
	row("Medium", prev.MediumCount, cur.MediumCount, formatDelta(change.MediumDelta))
	row("Low", prev.LowCount, cur.LowCount, formatDelta(change.LowDelta))
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	row("Total", prev.TotalInsights, cur.TotalInsights, formatDelta(cur.TotalInsights-prev.TotalInsights))

	if len(result.NewInsights) > 0 {
		fmt.Fprintf(out, "\nNew Insights (%d):\n", len(result.NewInsights))
		for _, in := range result.NewInsights {
			fmt.Fprintf(out, "  [+] [%s] %s (%s)\n", in.Severity, in.Title, in.Category)
		}
	}

	if len(result.ResolvedInsights) > 0 {
		fmt.Fprintf(out, "\nResolved Insights (%d):\n", len(result.ResolvedInsights))
		for _, in := range result.ResolvedInsights {
			fmt.Fprintf(out, "  [-] [%s] %s (%s)\n", in.Severity, in.Title, in.Category)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d insights\n", result.UnchangedCount)
	}
	return nil
}

// formatDirection formats the change direction for display.
func formatDirection(direction string) string {
	switch direction {
	case directionImproved:
		return "IMPROVED"
	case directionWorsened:
		return "WORSENED"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
