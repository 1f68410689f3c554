package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/siteaudit/internal/config"
	"github.com/nao1215/siteaudit/internal/database"
	applog "github.com/nao1215/siteaudit/internal/log"
	"github.com/nao1215/siteaudit/internal/model"
	"github.com/nao1215/siteaudit/internal/pipeline"
	"github.com/nao1215/siteaudit/internal/report"
	"github.com/spf13/cobra"
)

// errScansFailed is returned when at least one target could not be scanned.
var errScansFailed = errors.New("scan failed")

// socialFlags maps each social handle flag to its platform.
var socialFlags = []model.SocialPlatform{
	model.SocialPlatformInstagram,
	model.SocialPlatformTwitter,
	model.SocialPlatformFacebook,
	model.SocialPlatformLinkedIn,
	model.SocialPlatformTikTok,
	model.SocialPlatformYouTube,
}

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [website-url]",
		Short: "Audit one or more websites",
		Long: `Scan audits business websites and prints a synthesized report.

Every scan runs the ten core analysis modules concurrently:
- Technical, Content, Visual, Performance, SEO
- Conversion, Competitor, Security, Mobile, Accessibility

When a business name, location, or social handle is known, the Google
Business, Maps, and Social presence modules run as well. A module that
fails or exceeds its deadline is replaced by a fallback entry, so a scan
always produces a report.

Results are saved to the scan history (XDG data directory) unless
--no-save is given. Use "siteaudit compare" to see how a site changed.

Examples:
  # Scan a single website
  siteaudit scan https://example.com

  # Scan with business metadata
  siteaudit scan example.com --business "Example Bakery" --location "Portland, OR" \
    --instagram examplebakery

  # Scan several websites, five at a time
  siteaudit scan -b 5 site1.com site2.com site3.com

  # Write a Markdown report without touching the history
  siteaudit scan -m -o report.md --no-save example.com

Configuration file (.siteaudit) example:
  defaults:
    timeout: 20s
    provider: auto
  sites:
    example.com:
      businessName: "Example Bakery"
      socialHandles:
        instagram: "examplebakery"`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Business metadata flags
	cmd.Flags().StringP("business", "n", "", "Business name behind the website")
	cmd.Flags().StringP("location", "l", "", "Business location (city, region)")
	for _, p := range socialFlags {
		cmd.Flags().String(p.String(), "", fmt.Sprintf("%s handle of the business", p.DisplayName()))
	}

	// Scan behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultModuleTimeout,
		"Deadline for each analysis module (10s to 30s)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans")
	cmd.Flags().Bool("dedupe", false,
		"Remove insights that share a category and title")
	cmd.Flags().Int("max-insights", config.DefaultMaxInsights,
		"Maximum number of insights per report (0 keeps all)")
	cmd.Flags().StringSlice("disable", nil,
		"Analysis modules to skip (e.g. Competitor,Maps)")
	cmd.Flags().StringP("provider", "p", config.DefaultProvider,
		"AI provider: openai, anthropic, gemini, auto, or none")
	cmd.Flags().Float64("baseline-revenue", config.DefaultBaselineRevenue,
		"Assumed current revenue for the revenue projection")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .siteaudit in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("no-save", false,
		"Do not save results to the scan history")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cfg, logger, cmd.ErrOrStderr())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// configuration file. Flags set on the command line win over the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.BusinessName, err = flags.GetString("business"); err != nil {
		return nil, err
	}
	if cfg.Location, err = flags.GetString("location"); err != nil {
		return nil, err
	}
	for _, p := range socialFlags {
		handle, err := flags.GetString(p.String())
		if err != nil {
			return nil, err
		}
		if handle != "" {
			cfg.SocialHandles[p] = handle
		}
	}

	if cfg.ModuleTimeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.Dedupe, err = flags.GetBool("dedupe"); err != nil {
		return nil, err
	}
	if cfg.MaxInsights, err = flags.GetInt("max-insights"); err != nil {
		return nil, err
	}
	if cfg.DisabledModules, err = flags.GetStringSlice("disable"); err != nil {
		return nil, err
	}
	if cfg.Provider, err = flags.GetString("provider"); err != nil {
		return nil, err
	}
	if cfg.BaselineRevenue, err = flags.GetFloat64("baseline-revenue"); err != nil {
		return nil, err
	}

	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	// An explicit path must exist; otherwise a missing file means no site settings.
	if cfg.SiteConfigs, err = config.ResolveFile(cfg.ConfigFilePath); err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	return cfg, nil
}

// setupLogger creates a structured logger that never prints API keys.
func setupLogger(verbose bool) *slog.Logger {
	return applog.NewSecureLogger(os.Stderr, verbose)
}

// runScan scans every target in cfg and writes one report per target.
// Progress lines go to progress so that stdout carries only reports.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, progress io.Writer) error {
	if len(cfg.Targets) == 0 {
		return config.ErrNoTarget
	}

	targets := make([]model.Target, 0, len(cfg.Targets))
	for _, raw := range cfg.Targets {
		target, _, err := cfg.TargetFor(raw)
		if err != nil {
			return fmt.Errorf("invalid website URL %q: %w", raw, err)
		}
		targets = append(targets, target)
	}

	config.LoadEnv(logger)

	logger.Info("starting scan",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.ScanDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	output, closeOutput, err := openOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()
	writer := newReportWriter(cfg, output)

	scanner := newAuditScanner(cfg, newProviderCache(logger, nil), nil, logger)
	run := &scanRun{
		cfg:      cfg,
		db:       db,
		writer:   writer,
		logger:   logger,
		progress: progress,
	}

	if len(targets) > 1 && cfg.BatchSize > 1 {
		return run.batch(ctx, scanner, targets)
	}
	return run.sequential(ctx, scanner, targets)
}

// scanRun holds what every completed scan is handed to.
type scanRun struct {
	cfg      *config.Config
	db       *database.ScanDB
	writer   report.Writer
	logger   *slog.Logger
	progress io.Writer

	mu     sync.Mutex
	failed int
}

// sequential scans targets one at a time.
func (r *scanRun) sequential(ctx context.Context, scanner pipeline.Scanner, targets []model.Target) error {
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(r.progress, "Scanning %s...\n", target.URL)
		startTime := time.Now()

		result, err := scanner.Scan(ctx, target)
		if err == nil {
			fmt.Fprintf(r.progress, "Scan completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))
		}
		r.complete(ctx, pipeline.BatchItem{Target: target, Result: result, Err: err})
	}
	return r.err(len(targets))
}

// batch scans targets concurrently with a BatchProcessor.
func (r *scanRun) batch(ctx context.Context, scanner pipeline.Scanner, targets []model.Target) error {
	fmt.Fprintf(r.progress, "Starting batch scan of %d targets (concurrency: %d)...\n\n",
		len(targets), r.cfg.BatchSize)
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(scanner,
		pipeline.WithConcurrency(r.cfg.BatchSize),
		pipeline.WithBatchLogger(r.logger),
	)

	var done int
	err := bp.ProcessBatchWithCallback(ctx, targets, func(item pipeline.BatchItem, _ int) {
		r.mu.Lock()
		done++
		fmt.Fprintf(r.progress, "[%d/%d] Scan completed: %s\n", done, len(targets), item.Target.URL)
		r.mu.Unlock()

		r.complete(ctx, item)
	})

	fmt.Fprintf(r.progress, "\nBatch scan completed in %s\n", time.Since(startTime).Round(time.Millisecond))
	if err != nil {
		return err
	}
	return r.err(len(targets))
}

// complete reports and stores one scan outcome. It is safe for concurrent use.
func (r *scanRun) complete(ctx context.Context, item pipeline.BatchItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.Err != nil {
		r.failed++
		r.logger.Error("scan failed", "target", item.Target.URL, "error", item.Err)
		fmt.Fprintf(r.progress, "Scan error for %s: %s\n", item.Target.URL, applog.ScrubString(item.Err.Error()))
		return
	}

	if _, err := r.writer.Write(item.Result); err != nil {
		r.logger.Error("report failed", "target", item.Target.URL, "error", err)
	}
	if err := saveScanResult(ctx, r.db, item.Result, r.logger); err != nil {
		r.logger.Error("failed to save scan result", "target", item.Target.URL, "error", err)
	}
}

func (r *scanRun) err(total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d targets", errScansFailed, r.failed, total)
}

// openOutput opens path for the report, or stdout when path is empty.
// Reports are created with 0600 because they may describe private business data.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil //nolint:errcheck // Best effort close
}

// newReportWriter returns the writer for the requested format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// saveScanResult saves the result to the scan history.
// If db is nil, this function is a no-op.
func saveScanResult(ctx context.Context, db *database.ScanDB, result *model.ScanResult, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveScanResult(ctx, result)
	if err != nil {
		return fmt.Errorf("failed to save scan result: %w", err)
	}

	logger.Info("scan result saved to database", "target", result.Target.URL, "id", id)
	return nil
}
