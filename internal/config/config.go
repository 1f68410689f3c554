package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/analysis"
	"github.com/nao1215/siteaudit/internal/model"
)

// Default configuration values.
const (
	// DefaultModuleTimeout bounds each analysis module. Provider calls usually
	// answer within a few seconds; a module that needs longer is replaced by
	// its fallback.
	DefaultModuleTimeout = 20 * time.Second

	// MinModuleTimeout and MaxModuleTimeout bound the configurable timeout.
	MinModuleTimeout = 10 * time.Second
	MaxModuleTimeout = 30 * time.Second

	// DefaultBatchSize is the number of concurrent scans for multiple targets.
	// Each scan already fans out to every module, so the provider sees up to
	// BatchSize times the module count in flight.
	DefaultBatchSize = 10

	// DefaultMaxInsights of 0 keeps every insight.
	DefaultMaxInsights = 0

	// DefaultBaselineRevenue is the assumed current revenue for projections.
	DefaultBaselineRevenue = 100000.0

	// DefaultProvider chains every AI provider that has a key.
	DefaultProvider = ai.ProviderAuto

	// DefaultServerAddr is the listen address of the HTTP API.
	DefaultServerAddr = ":8080"

	// AppName is the application name used for XDG directory paths.
	AppName = "siteaudit"
)

// Config holds all configuration options for siteaudit.
// It is populated from CLI flags, the .siteaudit file, and the environment,
// and passed through the application rather than held in global state.
type Config struct {
	// ModuleTimeout is the deadline for each analysis module.
	ModuleTimeout time.Duration

	// BatchSize is the number of concurrent scans when processing multiple targets.
	BatchSize int

	// Dedupe removes insights that share a category and title.
	Dedupe bool

	// MaxInsights caps the number of insights in a result. 0 keeps all.
	MaxInsights int

	// DisabledModules are analysis module names to skip.
	DisabledModules []string

	// Provider selects the AI provider: openai, anthropic, gemini, auto, or none.
	Provider string

	// BaselineRevenue is the assumed current revenue for revenue projections.
	BaselineRevenue float64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .siteaudit in the current directory,
	// the user's home directory, and the XDG config directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the config file.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable format.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// Targets is the list of website URLs to scan.
	Targets []string

	// BusinessName, Location, and SocialHandles describe the business behind
	// the targets. Non-empty values override the site configuration.
	BusinessName  string
	Location      string
	SocialHandles model.SocialHandles

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to XDG data directory (~/.local/share/siteaudit on Linux).
	DBDir string

	// SaveToDB indicates whether to save scan results to the database.
	SaveToDB bool

	// ServerAddr is the listen address of the HTTP API.
	ServerAddr string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ModuleTimeout:   DefaultModuleTimeout,
		BatchSize:       DefaultBatchSize,
		MaxInsights:     DefaultMaxInsights,
		Provider:        DefaultProvider,
		BaselineRevenue: DefaultBaselineRevenue,
		ServerAddr:      DefaultServerAddr,
		SocialHandles:   make(model.SocialHandles),
	}
}

// XDGDataDir returns the XDG data directory for siteaudit.
// On Linux: ~/.local/share/siteaudit
// On macOS: ~/Library/Application Support/siteaudit
// On Windows: %LOCALAPPDATA%\siteaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for siteaudit.
// On Linux: ~/.config/siteaudit
// On macOS: ~/Library/Application Support/siteaudit
// On Windows: %APPDATA%\siteaudit
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid for a scan.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return c.ValidateScanOptions()
}

// ValidateScanOptions checks the options shared by the CLI and the HTTP API.
func (c *Config) ValidateScanOptions() error {
	if c.ModuleTimeout < MinModuleTimeout || c.ModuleTimeout > MaxModuleTimeout {
		return ErrInvalidModuleTimeout
	}
	if c.MaxInsights < 0 {
		return ErrInvalidMaxInsights
	}
	if c.BaselineRevenue <= 0 {
		return ErrInvalidBaselineRevenue
	}
	if !slices.Contains(ai.ProviderNames(), strings.ToLower(strings.TrimSpace(c.Provider))) {
		return ErrUnknownProvider
	}
	for _, name := range c.DisabledModules {
		if !analysis.IsModuleName(name) {
			return fmt.Errorf("%w: %q", ErrUnknownModule, name)
		}
	}
	return nil
}

// ApplyDefaults copies the file-level defaults onto fields that still hold
// their built-in default value. Values set on the command line win.
func (c *Config) ApplyDefaults(d SiteConfig) {
	if d.Timeout > 0 && c.ModuleTimeout == DefaultModuleTimeout {
		c.ModuleTimeout = d.Timeout
	}
	if d.Dedupe != nil && !c.Dedupe {
		c.Dedupe = *d.Dedupe
	}
	if d.MaxInsights > 0 && c.MaxInsights == DefaultMaxInsights {
		c.MaxInsights = d.MaxInsights
	}
	if d.Provider != "" && c.Provider == DefaultProvider {
		c.Provider = d.Provider
	}
	if d.BaselineRevenue > 0 && c.BaselineRevenue == DefaultBaselineRevenue {
		c.BaselineRevenue = d.BaselineRevenue
	}
	if len(d.DisabledModules) > 0 {
		c.DisabledModules = mergeNames(c.DisabledModules, d.DisabledModules)
	}
}

// TargetFor builds the validated Target for raw, combining the site
// configuration for its host with the business metadata set on c.
func (c *Config) TargetFor(raw string) (model.Target, SiteConfig, error) {
	target, err := model.NewTarget(raw)
	if err != nil {
		return model.Target{}, SiteConfig{}, err
	}

	var site SiteConfig
	if c.SiteConfigs != nil {
		site = c.SiteConfigs.GetSiteConfig(target.Host())
	}

	business := firstNonEmpty(c.BusinessName, site.BusinessName)
	location := firstNonEmpty(c.Location, site.Location)
	handles := site.Handles()
	for p, h := range c.SocialHandles {
		if strings.TrimSpace(h) != "" {
			handles[p] = h
		}
	}

	target, err = model.NewTarget(raw,
		model.WithBusinessName(business),
		model.WithLocation(location),
		model.WithSocialHandles(handles),
	)
	if err != nil {
		return model.Target{}, SiteConfig{}, err
	}
	return target, site, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// mergeNames returns the union of a and b, keeping the order of first
// appearance and comparing case-insensitively.
func mergeNames(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, name := range slices.Concat(a, b) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(name))
	}
	return out
}
