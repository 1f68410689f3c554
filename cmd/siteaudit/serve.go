package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nao1215/siteaudit/internal/config"
	applog "github.com/nao1215/siteaudit/internal/log"
	"github.com/nao1215/siteaudit/internal/metrics"
	"github.com/nao1215/siteaudit/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the audit engine over HTTP",
		Long: `Serve exposes the audit engine as an HTTP API.

Routes:
  POST /api/scan   Audit the website in the JSON body
  GET  /api/scan   Describe the API
  GET  /healthz    Liveness probe
  GET  /metrics    Prometheus metrics

Request body of POST /api/scan:
  {
    "websiteUrl": "https://example.com",
    "businessName": "Example Bakery",
    "location": "Portland, OR",
    "socialHandles": {"instagram": "examplebakery"}
  }

Logs are written to stderr as JSON. API keys never appear in logs or
error responses.

Examples:
  # Listen on the default address
  siteaudit serve

  # Listen on localhost only, without AI providers
  siteaudit serve --addr 127.0.0.1:9000 --provider none`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultServerAddr,
		"Listen address")
	cmd.Flags().DurationP("timeout", "t", config.DefaultModuleTimeout,
		"Deadline for each analysis module (10s to 30s)")
	cmd.Flags().StringP("provider", "p", config.DefaultProvider,
		"AI provider: openai, anthropic, gemini, auto, or none")
	cmd.Flags().Bool("dedupe", false,
		"Remove insights that share a category and title")
	cmd.Flags().Int("max-insights", config.DefaultMaxInsights,
		"Maximum number of insights per report (0 keeps all)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .siteaudit in current or home directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	logger := applog.NewSecureJSONLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServe(ctx, cfg, logger)
}

// buildServeConfig creates a Config for the server from flags and the
// configuration file.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.ServerAddr, err = flags.GetString("addr"); err != nil {
		return nil, err
	}
	if cfg.ModuleTimeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Provider, err = flags.GetString("provider"); err != nil {
		return nil, err
	}
	if cfg.Dedupe, err = flags.GetBool("dedupe"); err != nil {
		return nil, err
	}
	if cfg.MaxInsights, err = flags.GetInt("max-insights"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if cfg.SiteConfigs, err = config.ResolveFile(cfg.ConfigFilePath); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if strings.TrimSpace(cfg.ServerAddr) == "" {
		return nil, config.ErrEmptyServerAddr
	}
	if err := cfg.ValidateScanOptions(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// runServe serves the API until ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	config.LoadEnv(logger)

	collector := metrics.NewCollector(getVersion())
	providers := newProviderCache(logger, collector.ObserveBreakerTransition)
	scanner := newAuditScanner(cfg, providers, collector, logger)

	srv := server.New(server.DefaultConfig(cfg.ServerAddr), scanner,
		server.WithLogger(logger),
		server.WithCollector(collector),
	)

	fmt.Fprintf(os.Stderr, "siteaudit %s listening on %s\n", getVersion(), cfg.ServerAddr)
	return srv.Run(ctx)
}
