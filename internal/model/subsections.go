package model

// Hotspot is a point of attention on a heatmap.
type Hotspot struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Intensity float64 `json:"intensity"`
}

// Heatmap describes predicted visitor attention on one page.
type Heatmap struct {
	Page     string    `json:"page"`
	Hotspots []Hotspot `json:"hotspots"`
	Summary  string    `json:"summary"`
}

// ScreenshotMetrics are measurements attached to an annotated screenshot.
type ScreenshotMetrics struct {
	LCP            float64 `json:"lcp"`
	ConversionLift float64 `json:"conversionLift"`
}

// Screenshot is an annotated capture of a page.
type Screenshot struct {
	URL         string            `json:"url"`
	Description string            `json:"description"`
	Metrics     ScreenshotMetrics `json:"metrics"`
}

// VisualAnalysis holds the visual design assessment.
type VisualAnalysis struct {
	Heatmaps           []Heatmap    `json:"heatmaps"`
	Screenshots        []Screenshot `json:"screenshots"`
	DesignScore        int          `json:"designScore"`
	AccessibilityScore int          `json:"accessibilityScore"`
	BrandConsistency   int          `json:"brandConsistency"`
	VisualHierarchy    int          `json:"visualHierarchy"`
}

// CoreWebVitals are the Core Web Vitals measurements.
type CoreWebVitals struct {
	// LCP is Largest Contentful Paint in seconds.
	LCP float64 `json:"lcp"`
	// FID is First Input Delay in milliseconds.
	FID float64 `json:"fid"`
	// CLS is Cumulative Layout Shift.
	CLS float64 `json:"cls"`
}

// PerformanceMetrics holds the speed and quality scores of the site.
// Scores are in the range 0 to 100.
type PerformanceMetrics struct {
	// LoadTime is the full page load time in seconds.
	LoadTime        float64       `json:"loadTime"`
	CoreWebVitals   CoreWebVitals `json:"coreWebVitals"`
	LighthouseScore int           `json:"lighthouseScore"`
	MobileScore     int           `json:"mobileScore"`
	SecurityScore   int           `json:"securityScore"`
}

// ConversionOpportunity is a conversion-rate improvement estimate.
// Rates are percentages.
type ConversionOpportunity struct {
	CurrentRate       float64  `json:"currentRate"`
	ProjectedRate     float64  `json:"projectedRate"`
	Opportunities     []string `json:"opportunities"`
	ABTestSuggestions []string `json:"abTestSuggestions"`
	RevenueImpact     float64  `json:"revenueImpact"`
}

// CompetitorAnalysis summarizes the competitive landscape.
type CompetitorAnalysis struct {
	TopCompetitors      []string `json:"topCompetitors"`
	StrengthsWeaknesses []string `json:"strengthsWeaknesses"`
	MarketPosition      string   `json:"marketPosition"`
	Opportunities       []string `json:"opportunities"`
}

// RevenueProjection estimates revenue after acting on the recommendations.
// MultipleIncrease always equals ProjectedRevenue / CurrentRevenue.
type RevenueProjection struct {
	CurrentRevenue   float64 `json:"currentRevenue"`
	ProjectedRevenue float64 `json:"projectedRevenue"`
	MultipleIncrease float64 `json:"multipleIncrease"`
	Timeframe        string  `json:"timeframe"`
	ConfidenceLevel  int     `json:"confidenceLevel"`
}

// LocalRanking is the position of the business for a local search query.
type LocalRanking struct {
	Keyword         string `json:"keyword"`
	Position        int    `json:"position"`
	MonthlySearches int    `json:"monthlySearches"`
}

// LocalPresence describes the business's Google Business profile.
type LocalPresence struct {
	BusinessName        string         `json:"businessName"`
	Location            string         `json:"location,omitempty"`
	ProfileCompleteness int            `json:"profileCompleteness"`
	Rating              float64        `json:"rating"`
	ReviewCount         int            `json:"reviewCount"`
	ResponseRate        int            `json:"responseRate"`
	CommonComplaints    []string       `json:"commonComplaints,omitempty"`
	Highlights          []string       `json:"highlights,omitempty"`
	LocalRankings       []LocalRanking `json:"localRankings,omitempty"`
}

// MapsPresence describes how the business appears on map listings.
type MapsPresence struct {
	Location         string `json:"location"`
	VisibilityScore  int    `json:"visibilityScore"`
	LocationAccuracy int    `json:"locationAccuracy"`
}

// SocialProfile is a linked social account.
type SocialProfile struct {
	Platform   SocialPlatform `json:"platform"`
	Handle     string         `json:"handle"`
	ProfileURL string         `json:"profileUrl"`
}

// SocialPresence describes the business's social media footprint.
// OverallScore is the percentage of supported platforms with a linked profile.
type SocialPresence struct {
	Profiles         []SocialProfile  `json:"profiles"`
	MissingPlatforms []SocialPlatform `json:"missingPlatforms,omitempty"`
	OverallScore     int              `json:"overallScore"`
}
