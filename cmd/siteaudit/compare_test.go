package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/siteaudit/internal/database"
	"github.com/nao1215/siteaudit/internal/model"
)

const compareURL = "https://example.com"

var (
	insightSpeed = model.Insight{Category: model.CategoryPerformance, Severity: model.SeverityHigh, Title: "Slow page load"}
	insightAlt   = model.Insight{Category: model.CategoryUX, Severity: model.SeverityLow, Title: "Missing alt text"}
	insightMeta  = model.Insight{Category: model.CategorySEO, Severity: model.SeverityMedium, Title: "Missing meta description"}
)

func newCompareResult(t *testing.T, url string, score int, at time.Time, insights ...model.Insight) *model.ScanResult {
	t.Helper()
	target, err := model.NewTarget(url)
	if err != nil {
		t.Fatalf("failed to create target: %v", err)
	}
	return &model.ScanResult{
		ID:          model.NewScanID(),
		Target:      target,
		Score:       score,
		Insights:    insights,
		StartedAt:   at.Add(-time.Second),
		CompletedAt: at,
	}
}

// seedHistory stores an older and a newer scan of compareURL and one scan
// of another website. It returns the row IDs in that order.
func seedHistory(t *testing.T) (*database.ScanDB, []int64) {
	t.Helper()
	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	results := []*model.ScanResult{
		newCompareResult(t, compareURL, 60, time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC), insightSpeed, insightAlt),
		newCompareResult(t, compareURL, 75, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), insightAlt, insightMeta),
		newCompareResult(t, "https://example.org", 50, time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)),
	}
	ids := make([]int64, 0, len(results))
	for _, r := range results {
		id, err := db.SaveScanResult(context.Background(), r)
		if err != nil {
			t.Fatalf("failed to save result: %v", err)
		}
		ids = append(ids, id)
	}
	return db, ids
}

// TestNewCompareCmd tests the compare command creation.
func TestNewCompareCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()
	if cmd.Use != "compare [website-url]" {
		t.Errorf("expected use 'compare [website-url]', got %q", cmd.Use)
	}

	flags := map[string]string{
		"list":         "l",
		"list-targets": "L",
		"with-scan-id": "i",
		"since":        "s",
		"json":         "j",
		"markdown":     "m",
	}
	for name, shorthand := range flags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Errorf("expected %s flag", name)
			continue
		}
		if flag.Shorthand != shorthand {
			t.Errorf("expected shorthand %q for %s, got %q", shorthand, name, flag.Shorthand)
		}
	}
}

// TestRunCompareCmdArguments tests argument validation before the database is opened.
func TestRunCompareCmdArguments(t *testing.T) {
	t.Parallel()

	t.Run("requires website URL", func(t *testing.T) {
		t.Parallel()
		cmd := NewCompareCmd()
		cmd.SetArgs([]string{})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})

		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "website URL is required") {
			t.Errorf("expected missing URL error, got %v", err)
		}
	})

	t.Run("rejects invalid website URL", func(t *testing.T) {
		t.Parallel()
		cmd := NewCompareCmd()
		cmd.SetArgs([]string{"ftp://example.com"})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})

		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "invalid website URL") {
			t.Errorf("expected invalid URL error, got %v", err)
		}
	})
}

// TestCompareResults tests insight matching between two scans.
func TestCompareResults(t *testing.T) {
	t.Parallel()

	previous := newCompareResult(t, compareURL, 60, time.Now().Add(-time.Hour), insightSpeed, insightAlt)
	current := newCompareResult(t, compareURL, 75, time.Now(), insightAlt, insightMeta, insightMeta)

	result := compareResults(previous, current)

	if result.URL != compareURL {
		t.Errorf("expected URL %q, got %q", compareURL, result.URL)
	}
	if len(result.NewInsights) != 1 || result.NewInsights[0].Title != insightMeta.Title {
		t.Errorf("expected one new insight, got %+v", result.NewInsights)
	}
	if len(result.ResolvedInsights) != 1 || result.ResolvedInsights[0].Title != insightSpeed.Title {
		t.Errorf("expected one resolved insight, got %+v", result.ResolvedInsights)
	}
	if result.UnchangedCount != 1 {
		t.Errorf("expected 1 unchanged insight, got %d", result.UnchangedCount)
	}
	if result.PreviousScan.HighCount != 1 || result.CurrentScan.MediumCount != 2 {
		t.Errorf("unexpected snapshots: %+v / %+v", result.PreviousScan, result.CurrentScan)
	}
	if result.Change.ScoreDelta != 15 || result.Change.Direction != directionImproved {
		t.Errorf("expected +15 improved, got %+v", result.Change)
	}
}

// TestCalculateChange tests the direction of a change.
func TestCalculateChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		previous ScanSnapshot
		current  ScanSnapshot
		want     string
	}{
		{"higher score", ScanSnapshot{Score: 50}, ScanSnapshot{Score: 60}, directionImproved},
		{"lower score", ScanSnapshot{Score: 60}, ScanSnapshot{Score: 50}, directionWorsened},
		{"same score fewer severe insights", ScanSnapshot{Score: 60, HighCount: 2}, ScanSnapshot{Score: 60, HighCount: 1, LowCount: 3}, directionImproved},
		{"same score more severe insights", ScanSnapshot{Score: 60}, ScanSnapshot{Score: 60, CriticalCount: 1}, directionWorsened},
		{"identical", ScanSnapshot{Score: 60, LowCount: 1}, ScanSnapshot{Score: 60, LowCount: 1}, directionUnchanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := calculateChange(tt.previous, tt.current)
			if got.Direction != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Direction)
			}
		})
	}
}

// TestFormatHelpers tests the comparison formatting helpers.
func TestFormatHelpers(t *testing.T) {
	t.Parallel()

	t.Run("formatDelta", func(t *testing.T) {
		t.Parallel()
		for delta, want := range map[int]string{3: "+3", 0: "0", -2: "-2"} {
			if got := formatDelta(delta); got != want {
				t.Errorf("formatDelta(%d) = %q, want %q", delta, got, want)
			}
		}
	})

	t.Run("formatDirection", func(t *testing.T) {
		t.Parallel()
		for direction, want := range map[string]string{
			directionImproved:  "IMPROVED",
			directionWorsened:  "WORSENED",
			directionUnchanged: "UNCHANGED",
			"":                 "UNCHANGED",
		} {
			if got := formatDirection(direction); got != want {
				t.Errorf("formatDirection(%q) = %q, want %q", direction, got, want)
			}
		}
	})

	t.Run("formatSeveritySummary", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			in   map[string]int
			want string
		}{
			{nil, "N/A"},
			{map[string]int{}, noInsightsMessage},
			{map[string]int{"critical": 1, "high": 0, "medium": 2, "low": 3}, "C:1 M:2 L:3"},
		}
		for _, tt := range tests {
			if got := formatSeveritySummary(tt.in); got != tt.want {
				t.Errorf("formatSeveritySummary(%v) = %q, want %q", tt.in, got, tt.want)
			}
		}
	})
}

// TestOutputComparison tests the three output formats.
func TestOutputComparison(t *testing.T) {
	t.Parallel()

	previous := newCompareResult(t, compareURL, 60, time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC), insightSpeed, insightAlt)
	current := newCompareResult(t, compareURL, 75, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), insightAlt, insightMeta)
	comparison := compareResults(previous, current)

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := outputComparisonText(&buf, comparison); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		for _, want := range []string{
			"Scan Comparison: " + compareURL,
			"Status: IMPROVED",
			"Previous scan: 2026-01-10 09:00:00",
			"+15",
			"[+] [medium] Missing meta description (SEO)",
			"[-] [high] Slow page load (Performance)",
			"Unchanged: 1 insights",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := outputComparisonJSON(&buf, comparison); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var decoded ComparisonResult
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to parse JSON: %v", err)
		}
		if decoded.Change.ScoreDelta != 15 || decoded.UnchangedCount != 1 {
			t.Errorf("unexpected decoded comparison: %+v", decoded)
		}
		if !strings.Contains(buf.String(), `"newInsights"`) {
			t.Error("expected camelCase keys")
		}
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := outputComparisonMarkdown(&buf, comparison); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		for _, want := range []string{
			"# Scan Comparison: " + compareURL,
			"**Status:** IMPROVED",
			"## New Insights (1)",
			"## Resolved Insights (1)",
			"~~**[high]** Slow page load (Performance)~~",
			"*1 insights unchanged*",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected markdown to contain %q\n%s", want, out)
			}
		}
	})
}

// TestRunComparison tests comparisons read from the scan history.
func TestRunComparison(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, url string, opts compareOptions) (*ComparisonResult, error) {
		t.Helper()
		db, _ := seedHistory(t)
		opts.JSON = true
		var buf bytes.Buffer
		if err := runComparison(context.Background(), db, url, opts, &buf); err != nil {
			return nil, err
		}
		var result ComparisonResult
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON: %v", err)
		}
		return &result, nil
	}

	t.Run("compares latest two scans", func(t *testing.T) {
		t.Parallel()
		result, err := run(t, compareURL, compareOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PreviousScan.Score != 60 || result.CurrentScan.Score != 75 {
			t.Errorf("unexpected scores: %d -> %d", result.PreviousScan.Score, result.CurrentScan.Score)
		}
	})

	t.Run("compares with first scan since date", func(t *testing.T) {
		t.Parallel()
		result, err := run(t, compareURL, compareOptions{Since: "2026-01-01"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.PreviousScan.Score != 60 {
			t.Errorf("expected the January scan, got score %d", result.PreviousScan.Score)
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name string
			url  string
			opts compareOptions
			want string
		}{
			{"no history", "https://unknown.example", compareOptions{}, "no scan history"},
			{"single scan", "https://example.org", compareOptions{}, "at least 2 scans"},
			{"bad date", compareURL, compareOptions{Since: "01/02/2026"}, "invalid date format"},
			{"no scans since", compareURL, compareOptions{Since: "2027-01-01"}, "no scans found since"},
			{"only latest since", compareURL, compareOptions{Since: "2026-03-01"}, "only one scan found"},
			{"unknown scan id", compareURL, compareOptions{WithScanID: 999}, "not found"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				_, err := run(t, tt.url, tt.opts)
				if err == nil || !strings.Contains(err.Error(), tt.want) {
					t.Errorf("expected error containing %q, got %v", tt.want, err)
				}
			})
		}
	})
}

// TestRunComparisonWithScanID tests comparisons against a chosen scan.
func TestRunComparisonWithScanID(t *testing.T) {
	t.Parallel()

	db, ids := seedHistory(t)
	ctx := context.Background()

	t.Run("compares with older scan", func(t *testing.T) {
		var buf bytes.Buffer
		if err := runComparison(ctx, db, compareURL, compareOptions{WithScanID: ids[0]}, &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Status: IMPROVED") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})

	t.Run("rejects the latest scan", func(t *testing.T) {
		err := runComparison(ctx, db, compareURL, compareOptions{WithScanID: ids[1]}, &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), "latest scan") {
			t.Errorf("expected latest scan error, got %v", err)
		}
	})

	t.Run("rejects a scan of another website", func(t *testing.T) {
		err := runComparison(ctx, db, compareURL, compareOptions{WithScanID: ids[2]}, &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), "belongs to") {
			t.Errorf("expected ownership error, got %v", err)
		}
	})
}

// TestListing tests the history and target listings.
func TestListing(t *testing.T) {
	t.Parallel()

	db, _ := seedHistory(t)
	ctx := context.Background()

	t.Run("lists scanned targets", func(t *testing.T) {
		var buf bytes.Buffer
		if err := listScannedTargets(ctx, db, &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "Scanned websites (2)") {
			t.Errorf("expected two websites, got:\n%s", out)
		}
		if !strings.Contains(out, compareURL) || !strings.Contains(out, "https://example.org") {
			t.Errorf("expected both URLs, got:\n%s", out)
		}
	})

	t.Run("lists scan history newest first", func(t *testing.T) {
		var buf bytes.Buffer
		if err := listScanHistory(ctx, db, compareURL, &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "(2 scans)") {
			t.Errorf("expected two scans, got:\n%s", out)
		}
		march := strings.Index(out, "2026-03-10")
		january := strings.Index(out, "2026-01-10")
		if march < 0 || january < 0 || march > january {
			t.Errorf("expected newest scan first, got:\n%s", out)
		}
		if !strings.Contains(out, "H:1 L:1") {
			t.Errorf("expected severity summary, got:\n%s", out)
		}
	})

	t.Run("reports empty history", func(t *testing.T) {
		var buf bytes.Buffer
		if err := listScanHistory(ctx, db, "https://unknown.example", &buf); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No scan history found") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})
}
