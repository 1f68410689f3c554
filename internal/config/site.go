package config

import (
	"strings"
	"time"

	"github.com/nao1215/siteaudit/internal/model"
)

// SiteConfig holds site-specific configuration for a single host.
// The same structure is used for the file-level defaults.
type SiteConfig struct {
	// BusinessName enables the Google Business module for this site.
	BusinessName string `yaml:"businessName,omitempty"`

	// Location enables the Maps module when BusinessName is also set.
	Location string `yaml:"location,omitempty"`

	// SocialHandles maps platform names (instagram, twitter, ...) to handles.
	SocialHandles map[string]string `yaml:"socialHandles,omitempty"`

	// DisabledModules are analysis modules to skip for this site.
	DisabledModules []string `yaml:"disabledModules,omitempty"`

	// Timeout overrides the per-module timeout (e.g. "15s").
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Dedupe turns insight deduplication on or off.
	Dedupe *bool `yaml:"dedupe,omitempty"`

	// MaxInsights caps the number of insights. 0 keeps all.
	MaxInsights int `yaml:"maxInsights,omitempty"`

	// Provider selects the AI provider.
	Provider string `yaml:"provider,omitempty"`

	// BaselineRevenue is the assumed current revenue for projections.
	BaselineRevenue float64 `yaml:"baselineRevenue,omitempty"`
}

// Handles returns the social handles keyed by platform. Unknown platform
// names are dropped.
func (sc SiteConfig) Handles() model.SocialHandles {
	out := make(model.SocialHandles, len(sc.SocialHandles))
	for name, handle := range sc.SocialHandles {
		p := model.ParseSocialPlatform(name)
		if !p.IsValid() || strings.TrimSpace(handle) == "" {
			continue
		}
		out[p] = strings.TrimSpace(handle)
	}
	return out
}

// File represents the structure of the .siteaudit configuration file.
type File struct {
	// Sites maps hosts to their site-specific configurations.
	// Keys are hosts without the scheme (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults. A host with a
// "www." prefix also matches an entry without it, and the other way round.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	siteConfig, ok := cf.lookup(host)
	if !ok {
		return result
	}

	if siteConfig.BusinessName != "" {
		result.BusinessName = siteConfig.BusinessName
	}
	if siteConfig.Location != "" {
		result.Location = siteConfig.Location
	}
	if len(siteConfig.SocialHandles) > 0 {
		merged := make(map[string]string, len(result.SocialHandles)+len(siteConfig.SocialHandles))
		for k, v := range result.SocialHandles {
			merged[k] = v
		}
		for k, v := range siteConfig.SocialHandles {
			merged[k] = v
		}
		result.SocialHandles = merged
	}
	if len(siteConfig.DisabledModules) > 0 {
		result.DisabledModules = mergeNames(result.DisabledModules, siteConfig.DisabledModules)
	}
	if siteConfig.Timeout > 0 {
		result.Timeout = siteConfig.Timeout
	}
	if siteConfig.Dedupe != nil {
		result.Dedupe = siteConfig.Dedupe
	}
	if siteConfig.MaxInsights > 0 {
		result.MaxInsights = siteConfig.MaxInsights
	}
	if siteConfig.Provider != "" {
		result.Provider = siteConfig.Provider
	}
	if siteConfig.BaselineRevenue > 0 {
		result.BaselineRevenue = siteConfig.BaselineRevenue
	}

	return result
}

func (cf *File) lookup(host string) (SiteConfig, bool) {
	host = strings.ToLower(strings.TrimSpace(host))
	candidates := []string{host}
	if trimmed, ok := strings.CutPrefix(host, "www."); ok {
		candidates = append(candidates, trimmed)
	} else {
		candidates = append(candidates, "www."+host)
	}

	for key, sc := range cf.Sites {
		for _, c := range candidates {
			if strings.EqualFold(key, c) {
				return sc, true
			}
		}
	}
	return SiteConfig{}, false
}
