package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/siteaudit/internal/config"
	"github.com/nao1215/siteaudit/internal/database"
	"github.com/nao1215/siteaudit/internal/model"
	"github.com/nao1215/siteaudit/internal/report"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan [website-url]" {
			t.Errorf("expected use 'scan [website-url]', got %q", cmd.Use)
		}
		if cmd.Args == nil {
			t.Error("expected Args validator")
		}
	})

	t.Run("has flags with shorthands", func(t *testing.T) {
		t.Parallel()
		tests := map[string]string{
			"business": "n",
			"location": "l",
			"timeout":  "t",
			"batch":    "b",
			"provider": "p",
			"config":   "c",
			"json":     "j",
			"markdown": "m",
			"output":   "o",
		}
		for name, shorthand := range tests {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				t.Errorf("expected %s flag", name)
				continue
			}
			if flag.Shorthand != shorthand {
				t.Errorf("expected shorthand %q for %s, got %q", shorthand, name, flag.Shorthand)
			}
		}
	})

	t.Run("has a flag per social platform", func(t *testing.T) {
		t.Parallel()
		for _, p := range model.AllSocialPlatforms() {
			if cmd.Flags().Lookup(p.String()) == nil {
				t.Errorf("expected %s flag", p)
			}
		}
	})

	t.Run("has long-only flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"dedupe", "max-insights", "disable", "baseline-revenue", "no-save"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("timeout defaults to module timeout", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("timeout")
		if flag.DefValue != config.DefaultModuleTimeout.String() {
			t.Errorf("expected default %s, got %s", config.DefaultModuleTimeout, flag.DefValue)
		}
	})
}

// TestGetVerboseFlag tests the verbose flag retrieval.
func TestGetVerboseFlag(t *testing.T) {
	t.Parallel()

	t.Run("returns false when flag not set", func(t *testing.T) {
		t.Parallel()
		if getVerboseFlag(NewScanCmd()) {
			t.Error("expected false when flag not set")
		}
	})

	t.Run("returns value from parent verbose flag", func(t *testing.T) {
		t.Parallel()
		root := NewRootCmd()
		if err := root.PersistentFlags().Set("verbose", "true"); err != nil {
			t.Fatalf("failed to set verbose: %v", err)
		}

		scanCmd, _, err := root.Find([]string{"scan"})
		if err != nil {
			t.Fatalf("failed to find scan command: %v", err)
		}
		if !getVerboseFlag(scanCmd) {
			t.Error("expected true from parent verbose flag")
		}
	})
}

// TestBuildConfig tests configuration building from flags.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("builds config with default values", func(t *testing.T) {
		t.Parallel()
		cfg, err := buildConfig(NewScanCmd(), []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "example.com" {
			t.Errorf("expected targets [example.com], got %v", cfg.Targets)
		}
		if cfg.ModuleTimeout != config.DefaultModuleTimeout {
			t.Errorf("expected timeout %v, got %v", config.DefaultModuleTimeout, cfg.ModuleTimeout)
		}
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir != config.XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", config.XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("builds config with business metadata", func(t *testing.T) {
		t.Parallel()
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("business", "Example Bakery")
		_ = cmd.Flags().Set("location", "Portland, OR")
		_ = cmd.Flags().Set("instagram", "examplebakery")
		_ = cmd.Flags().Set("youtube", "@examplebakery")

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BusinessName != "Example Bakery" {
			t.Errorf("expected business name, got %q", cfg.BusinessName)
		}
		if cfg.Location != "Portland, OR" {
			t.Errorf("expected location, got %q", cfg.Location)
		}
		if cfg.SocialHandles[model.SocialPlatformInstagram] != "examplebakery" {
			t.Errorf("expected instagram handle, got %v", cfg.SocialHandles)
		}
		if cfg.SocialHandles[model.SocialPlatformYouTube] != "@examplebakery" {
			t.Errorf("expected youtube handle, got %v", cfg.SocialHandles)
		}
		if _, ok := cfg.SocialHandles[model.SocialPlatformTikTok]; ok {
			t.Error("expected no tiktok handle")
		}
	})

	t.Run("builds config with scan options", func(t *testing.T) {
		t.Parallel()
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("timeout", "15s")
		_ = cmd.Flags().Set("batch", "3")
		_ = cmd.Flags().Set("dedupe", "true")
		_ = cmd.Flags().Set("max-insights", "5")
		_ = cmd.Flags().Set("disable", "Competitor,Maps")
		_ = cmd.Flags().Set("provider", "none")
		_ = cmd.Flags().Set("baseline-revenue", "250000")
		_ = cmd.Flags().Set("no-save", "true")

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ModuleTimeout != 15*time.Second {
			t.Errorf("expected timeout 15s, got %v", cfg.ModuleTimeout)
		}
		if cfg.BatchSize != 3 {
			t.Errorf("expected batch 3, got %d", cfg.BatchSize)
		}
		if !cfg.Dedupe {
			t.Error("expected dedupe")
		}
		if cfg.MaxInsights != 5 {
			t.Errorf("expected max insights 5, got %d", cfg.MaxInsights)
		}
		if len(cfg.DisabledModules) != 2 || cfg.DisabledModules[0] != "Competitor" {
			t.Errorf("expected disabled modules, got %v", cfg.DisabledModules)
		}
		if cfg.Provider != "none" {
			t.Errorf("expected provider none, got %q", cfg.Provider)
		}
		if cfg.BaselineRevenue != 250000 {
			t.Errorf("expected baseline revenue 250000, got %v", cfg.BaselineRevenue)
		}
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false")
		}
	})

	t.Run("builds config with report flags", func(t *testing.T) {
		t.Parallel()
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("json", "true")
		_ = cmd.Flags().Set("output", "/tmp/report.json")

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.JSONReport {
			t.Error("expected JSONReport to be true")
		}
		if cfg.ReportFile != "/tmp/report.json" {
			t.Errorf("expected ReportFile '/tmp/report.json', got %q", cfg.ReportFile)
		}
	})

	t.Run("loads config file", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), "siteaudit.yaml")
		content := []byte(`
defaults:
  timeout: 25s
sites:
  example.com:
    businessName: "Example Bakery"
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScanCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SiteConfigs == nil {
			t.Fatal("expected SiteConfigs to be loaded")
		}
		if cfg.SiteConfigs.Defaults.Timeout != 25*time.Second {
			t.Errorf("expected default timeout 25s, got %v", cfg.SiteConfigs.Defaults.Timeout)
		}
		if cfg.SiteConfigs.Sites["example.com"].BusinessName != "Example Bakery" {
			t.Errorf("expected site business name, got %+v", cfg.SiteConfigs.Sites)
		}
	})

	t.Run("returns error for invalid config file", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		if err := os.WriteFile(configPath, []byte(`{invalid yaml`), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewScanCmd()
		_ = cmd.Flags().Set("config", configPath)
		if _, err := buildConfig(cmd, []string{"example.com"}); err == nil {
			t.Fatal("expected error for invalid config file")
		}
	})

	t.Run("returns error for missing explicit config file", func(t *testing.T) {
		t.Parallel()
		cmd := NewScanCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.yaml"))
		_, err := buildConfig(cmd, []string{"example.com"})
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestRunScanCmdValidation tests that invalid invocations fail before scanning.
func TestRunScanCmdValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no targets", []string{}, config.ErrNoTarget},
		{"conflicting formats", []string{"--json", "--markdown", "example.com"}, config.ErrConflictingReportFormats},
		{"timeout below range", []string{"--timeout", "1s", "example.com"}, config.ErrInvalidModuleTimeout},
		{"unknown provider", []string{"--provider", "bogus", "example.com"}, config.ErrUnknownProvider},
		{"unknown module", []string{"--disable", "Nope", "example.com"}, config.ErrUnknownModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cmd := NewScanCmd()
			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})

			err := cmd.Execute()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestRunScan tests complete scans without AI providers.
func TestRunScan(t *testing.T) {
	t.Parallel()

	newConfig := func(t *testing.T, targets ...string) *config.Config {
		t.Helper()
		cfg := config.NewConfig()
		cfg.Provider = "none"
		cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
		cfg.Targets = targets
		cfg.DBDir = t.TempDir()
		return cfg
	}

	t.Run("returns error without targets", func(t *testing.T) {
		t.Parallel()
		err := runScan(context.Background(), newConfig(t), discardLogger(), io.Discard)
		if !errors.Is(err, config.ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", err)
		}
	})

	t.Run("returns error for invalid target", func(t *testing.T) {
		t.Parallel()
		err := runScan(context.Background(), newConfig(t, "ftp://example.com"), discardLogger(), io.Discard)
		if !errors.Is(err, model.ErrInvalidTargetURL) {
			t.Errorf("expected ErrInvalidTargetURL, got %v", err)
		}
	})

	t.Run("writes JSON report and saves history", func(t *testing.T) {
		t.Parallel()
		cfg := newConfig(t, "example.com")
		cfg.JSONReport = true
		cfg.SaveToDB = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "out", "report.json")

		var progress bytes.Buffer
		if err := runScan(context.Background(), cfg, discardLogger(), &progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(progress.String(), "Scanning https://example.com") {
			t.Errorf("expected progress line, got %q", progress.String())
		}

		content, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var rep report.JSONReport
		if err := json.Unmarshal(content, &rep); err != nil {
			t.Fatalf("failed to parse JSON: %v", err)
		}
		if rep.Result == nil || rep.Result.Target.URL != "https://example.com" {
			t.Fatalf("unexpected report target: %+v", rep.Result)
		}
		if len(rep.Result.Modules) != 10 {
			t.Errorf("expected 10 module reports, got %d", len(rep.Result.Modules))
		}
		if rep.Result.Score < 0 || rep.Result.Score > 100 {
			t.Errorf("score out of range: %d", rep.Result.Score)
		}

		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		history, err := db.GetScanHistory(context.Background(), "https://example.com")
		if err != nil {
			t.Fatalf("failed to read history: %v", err)
		}
		if len(history) != 1 || history[0].ID != rep.Result.ID {
			t.Errorf("expected the scan in history, got %d entries", len(history))
		}
	})

	t.Run("adds presence modules for business metadata", func(t *testing.T) {
		t.Parallel()
		cfg := newConfig(t, "example.com")
		cfg.JSONReport = true
		cfg.BusinessName = "Example Bakery"
		cfg.Location = "Portland, OR"
		cfg.SocialHandles[model.SocialPlatformInstagram] = "examplebakery"
		cfg.ReportFile = filepath.Join(t.TempDir(), "report.json")

		if err := runScan(context.Background(), cfg, discardLogger(), io.Discard); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var rep report.JSONReport
		if err := json.Unmarshal(content, &rep); err != nil {
			t.Fatalf("failed to parse JSON: %v", err)
		}
		if len(rep.Result.Modules) != 13 {
			t.Errorf("expected 13 module reports, got %d", len(rep.Result.Modules))
		}
		if rep.Result.SocialPresence == nil {
			t.Error("expected social presence")
		}
	})

	t.Run("scans a batch", func(t *testing.T) {
		t.Parallel()
		cfg := newConfig(t, "example.com", "example.org", "example.net")
		cfg.BatchSize = 2
		cfg.MarkdownReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "report.md")

		var progress bytes.Buffer
		if err := runScan(context.Background(), cfg, discardLogger(), &progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if n := strings.Count(string(content), "# Website Audit Report"); n != 3 {
			t.Errorf("expected 3 reports, got %d", n)
		}
		if !strings.Contains(progress.String(), "[3/3]") {
			t.Errorf("expected batch progress, got %q", progress.String())
		}
	})

	t.Run("returns context error when cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := runScan(ctx, newConfig(t, "example.com"), discardLogger(), io.Discard)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// TestOpenOutput tests report destination handling.
func TestOpenOutput(t *testing.T) {
	t.Parallel()

	t.Run("uses stdout without path", func(t *testing.T) {
		t.Parallel()
		w, closeFn, err := openOutput("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer closeFn()
		if w != os.Stdout {
			t.Error("expected stdout")
		}
	})

	t.Run("creates parent directories with private permissions", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "a", "b", "report.txt")
		w, closeFn, err := openOutput(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := io.WriteString(w, "report"); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		closeFn()

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected output file: %v", err)
		}
		if info.Mode().Perm()&0o077 != 0 {
			t.Errorf("expected owner-only permissions, got %v", info.Mode().Perm())
		}
	})
}

// TestNewReportWriter tests report format selection.
func TestNewReportWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *config.Config
		want string
	}{
		{"json", &config.Config{JSONReport: true}, "*report.FullJSONWriter"},
		{"markdown", &config.Config{MarkdownReport: true}, "*report.MarkdownWriter"},
		{"simple", &config.Config{}, "*report.SimpleWriter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := newReportWriter(tt.cfg, io.Discard)
			var got string
			switch w.(type) {
			case *report.FullJSONWriter:
				got = "*report.FullJSONWriter"
			case *report.MarkdownWriter:
				got = "*report.MarkdownWriter"
			case *report.SimpleWriter:
				got = "*report.SimpleWriter"
			}
			if got != tt.want {
				t.Errorf("expected %s, got %T", tt.want, w)
			}
		})
	}
}

// TestSaveScanResultNilDB tests that saving without a database is a no-op.
func TestSaveScanResultNilDB(t *testing.T) {
	t.Parallel()

	result := &model.ScanResult{ID: model.NewScanID()}
	if err := saveScanResult(context.Background(), nil, result, discardLogger()); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
