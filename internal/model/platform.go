package model

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// platformUnknownStr is the string representation for unknown platform values.
const platformUnknownStr = "unknown"

// SocialPlatform represents a social media platform a business can be present on.
type SocialPlatform string

// Social media platform constants.
const (
	// SocialPlatformUnknown represents an unknown platform.
	SocialPlatformUnknown SocialPlatform = ""
	// SocialPlatformInstagram represents Instagram.
	SocialPlatformInstagram SocialPlatform = "instagram"
	// SocialPlatformTwitter represents Twitter/X.
	SocialPlatformTwitter SocialPlatform = "twitter"
	// SocialPlatformFacebook represents Facebook.
	SocialPlatformFacebook SocialPlatform = "facebook"
	// SocialPlatformLinkedIn represents LinkedIn.
	SocialPlatformLinkedIn SocialPlatform = "linkedin"
	// SocialPlatformTikTok represents TikTok.
	SocialPlatformTikTok SocialPlatform = "tiktok"
	// SocialPlatformYouTube represents YouTube.
	SocialPlatformYouTube SocialPlatform = "youtube"
)

// AllSocialPlatforms returns the supported platforms in display order.
func AllSocialPlatforms() []SocialPlatform {
	return []SocialPlatform{
		SocialPlatformInstagram,
		SocialPlatformTwitter,
		SocialPlatformFacebook,
		SocialPlatformLinkedIn,
		SocialPlatformTikTok,
		SocialPlatformYouTube,
	}
}

// String returns the string representation of the SocialPlatform.
func (p SocialPlatform) String() string {
	if p == SocialPlatformUnknown {
		return platformUnknownStr
	}
	return string(p)
}

// IsValid returns true if this is a known platform.
func (p SocialPlatform) IsValid() bool {
	switch p {
	case SocialPlatformInstagram, SocialPlatformTwitter, SocialPlatformFacebook,
		SocialPlatformLinkedIn, SocialPlatformTikTok, SocialPlatformYouTube:
		return true
	default:
		return false
	}
}

// DisplayName returns the platform name for human-readable output.
func (p SocialPlatform) DisplayName() string {
	switch p {
	case SocialPlatformLinkedIn:
		return "LinkedIn"
	case SocialPlatformTikTok:
		return "TikTok"
	case SocialPlatformYouTube:
		return "YouTube"
	case SocialPlatformUnknown:
		return cases.Title(language.English).String(platformUnknownStr)
	default:
		return cases.Title(language.English).String(string(p))
	}
}

// ParseSocialPlatform converts a string to SocialPlatform.
func ParseSocialPlatform(s string) SocialPlatform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "instagram", "ig":
		return SocialPlatformInstagram
	case "twitter", "x":
		return SocialPlatformTwitter
	case "facebook", "fb":
		return SocialPlatformFacebook
	case "linkedin":
		return SocialPlatformLinkedIn
	case "tiktok":
		return SocialPlatformTikTok
	case "youtube":
		return SocialPlatformYouTube
	default:
		return SocialPlatformUnknown
	}
}

// SocialHandles maps platforms to the business's account handle on them.
type SocialHandles map[SocialPlatform]string

// Platforms returns the platforms with a non-empty handle, sorted by name.
func (h SocialHandles) Platforms() []SocialPlatform {
	platforms := make([]SocialPlatform, 0, len(h))
	for p, handle := range h {
		if strings.TrimSpace(handle) != "" {
			platforms = append(platforms, p)
		}
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })
	return platforms
}

// Clone returns an independent copy of the handles.
func (h SocialHandles) Clone() SocialHandles {
	if h == nil {
		return nil
	}
	out := make(SocialHandles, len(h))
	for p, handle := range h {
		out[p] = handle
	}
	return out
}
