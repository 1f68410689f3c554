package model

import (
	"fmt"
	"strings"
)

// Severity represents how urgently an insight should be acted upon.
// Severities are totally ordered: low < medium < high < critical.
type Severity int

const (
	// SeverityLow indicates a minor improvement with limited business impact.
	SeverityLow Severity = iota

	// SeverityMedium indicates an issue that warrants attention in the next iteration.
	SeverityMedium

	// SeverityHigh indicates an issue that measurably hurts traffic or conversions.
	SeverityHigh

	// SeverityCritical indicates an issue that needs immediate action.
	SeverityCritical
)

// String returns the lowercase name used in reports and the JSON contract.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// IsValid returns true if s is one of the four defined levels.
func (s Severity) IsValid() bool {
	return s >= SeverityLow && s <= SeverityCritical
}

// ParseSeverity converts a case-insensitive name into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityLow, fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
	}
}

// MarshalText implements encoding.TextMarshaler so that severities
// are encoded as strings in JSON and YAML.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeverity, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Insight kinds known to the catalog. Analysis modules emit insights by kind
// so that wording and weighting stay consistent across the application.
const (
	InsightCodeArchitecture     = "code_architecture"
	InsightContentOptimization  = "content_optimization"
	InsightVisualHierarchy      = "visual_hierarchy"
	InsightSEOOpportunities     = "seo_opportunities"
	InsightSecurityEnhancement  = "security_enhancement"
	InsightMobileExperience     = "mobile_experience"
	InsightAccessibility        = "accessibility_excellence"
	InsightGoogleBusinessReview = "google_business_reviews"
	InsightMapsListing          = "maps_listing"
	InsightSocialPresence       = "social_presence"
)

// InsightInfo contains the canned text and weighting for an insight kind.
type InsightInfo struct {
	Category    Category
	Severity    Severity
	Title       string
	Description string
	Impact      string
	Solution    string
	Effort      Effort
	ROI         int
}

// insightInfoMapping maps insight kinds to their canned content.
var insightInfoMapping = map[string]InsightInfo{
	// HIGH
	InsightCodeArchitecture: {
		Category:    CategoryTechnical,
		Severity:    SeverityHigh,
		Title:       "Code Architecture Analysis",
		Description: "Advanced analysis of website technical infrastructure",
		Impact:      "Affects site reliability and scalability",
		Solution:    "Implement modern architecture patterns",
		Effort:      EffortMedium,
		ROI:         250,
	},
	InsightSEOOpportunities: {
		Category:    CategorySEO,
		Severity:    SeverityHigh,
		Title:       "Advanced SEO Opportunities",
		Description: "AI-discovered keyword gaps and ranking opportunities",
		Impact:      "Could increase organic traffic by 500%+",
		Solution:    "Implement comprehensive SEO strategy",
		Effort:      EffortMedium,
		ROI:         800,
	},
	InsightMobileExperience: {
		Category:    CategoryMobile,
		Severity:    SeverityHigh,
		Title:       "Mobile Experience Revolution",
		Description: "Mobile-first optimization opportunities identified",
		Impact:      "60%+ of traffic comes from mobile devices",
		Solution:    "Implement progressive web app features",
		Effort:      EffortHigh,
		ROI:         600,
	},

	// MEDIUM
	InsightContentOptimization: {
		Category:    CategoryContent,
		Severity:    SeverityMedium,
		Title:       "Content Optimization Opportunities",
		Description: "AI-detected content gaps and improvement areas",
		Impact:      "Directly impacts user engagement and conversions",
		Solution:    "Implement AI-recommended content strategy",
		Effort:      EffortLow,
		ROI:         300,
	},
	InsightVisualHierarchy: {
		Category:    CategoryUX,
		Severity:    SeverityMedium,
		Title:       "Visual Hierarchy Optimization",
		Description: "Eye-tracking data reveals optimization opportunities",
		Impact:      "Improves user flow and conversion rates",
		Solution:    "Redesign key visual elements based on AI analysis",
		Effort:      EffortMedium,
		ROI:         400,
	},
	InsightSecurityEnhancement: {
		Category:    CategorySecurity,
		Severity:    SeverityMedium,
		Title:       "Security Enhancement Opportunities",
		Description: "Advanced security audit reveals improvement areas",
		Impact:      "Protects business and builds customer trust",
		Solution:    "Implement enterprise-grade security measures",
		Effort:      EffortMedium,
		ROI:         200,
	},
	InsightAccessibility: {
		Category:    CategoryUX,
		Severity:    SeverityMedium,
		Title:       "Accessibility Excellence",
		Description: "Make your site accessible to all users",
		Impact:      "Expands market reach by 15%+",
		Solution:    "Implement WCAG 2.1 AA compliance",
		Effort:      EffortMedium,
		ROI:         180,
	},
	InsightGoogleBusinessReview: {
		Category:    CategoryConversion,
		Severity:    SeverityMedium,
		Title:       "Google Business Review Response",
		Description: "Review response rate and profile completeness trail local competitors",
		Impact:      "Local search visibility and trust depend on review engagement",
		Solution:    "Respond to every review within 24 hours and complete all profile fields",
		Effort:      EffortLow,
		ROI:         350,
	},

	// LOW
	InsightMapsListing: {
		Category:    CategorySEO,
		Severity:    SeverityLow,
		Title:       "Maps Listing Accuracy",
		Description: "Map pin and listing details can be tightened for local searches",
		Impact:      "Accurate listings capture more 'near me' traffic",
		Solution:    "Verify map pin placement, hours and categories across map providers",
		Effort:      EffortLow,
		ROI:         150,
	},
	InsightSocialPresence: {
		Category:    CategoryContent,
		Severity:    SeverityLow,
		Title:       "Expand Social Presence",
		Description: "Recommended social platforms have no linked profile",
		Impact:      "Missing channels leave audience reach untapped",
		Solution:    "Claim and link profiles on the missing platforms",
		Effort:      EffortLow,
		ROI:         120,
	},
}

// GetInsightInfo returns the catalog entry for an insight kind.
// Returns a generic low-severity entry if the kind is not in the mapping.
func GetInsightInfo(kind string) InsightInfo {
	if info, ok := insightInfoMapping[kind]; ok {
		return info
	}
	return InsightInfo{
		Category:    CategoryTechnical,
		Severity:    SeverityLow,
		Title:       "Unclassified Observation",
		Description: "An observation without a catalog entry was recorded.",
		Impact:      "Unknown impact. Review manually.",
		Solution:    "Investigate the observation and assess its priority.",
		Effort:      EffortLow,
		ROI:         0,
	}
}

// NewInsight builds an Insight from the catalog entry for kind.
func NewInsight(kind string) Insight {
	info := GetInsightInfo(kind)
	return Insight{
		Category:    info.Category,
		Severity:    info.Severity,
		Title:       info.Title,
		Description: info.Description,
		Impact:      info.Impact,
		Solution:    info.Solution,
		Effort:      info.Effort,
		ROI:         info.ROI,
	}
}
