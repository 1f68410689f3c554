package model

import (
	"errors"
	"testing"
)

// TestNewTarget tests Target construction and URL validation.
func TestNewTarget(t *testing.T) {
	t.Parallel()

	t.Run("valid URLs", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			input    string
			expected string
		}{
			{"https://example.com", "https://example.com"},
			{"HTTP://Example.COM/Path", "http://example.com/Path"},
			{"example.com", "https://example.com"},
			{"  https://shop.example.co.uk/  ", "https://shop.example.co.uk/"},
			{"https://example.com/#section", "https://example.com/"},
		}

		for _, tc := range testCases {
			target, err := NewTarget(tc.input)
			if err != nil {
				t.Errorf("NewTarget(%q) unexpected error: %v", tc.input, err)
				continue
			}
			if target.URL != tc.expected {
				t.Errorf("NewTarget(%q).URL = %q, expected %q", tc.input, target.URL, tc.expected)
			}
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()

		if _, err := NewTarget("   "); !errors.Is(err, ErrEmptyTargetURL) {
			t.Errorf("expected ErrEmptyTargetURL, got %v", err)
		}
	})

	t.Run("invalid URLs", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"ftp://example.com", "https://", "mailto://", "https://exa mple.com"} {
			if _, err := NewTarget(input); !errors.Is(err, ErrInvalidTargetURL) {
				t.Errorf("NewTarget(%q) error = %v, expected ErrInvalidTargetURL", input, err)
			}
		}
	})
}

// TestTargetOptions tests the optional business metadata.
func TestTargetOptions(t *testing.T) {
	t.Parallel()

	target, err := NewTarget("https://bakery.example.com",
		WithBusinessName("  Corner Bakery "),
		WithLocation("Portland, OR"),
		WithSocialHandles(SocialHandles{
			SocialPlatformInstagram: "@cornerbakery",
			SocialPlatformTikTok:    "",
			SocialPlatformUnknown:   "ignored",
		}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if target.BusinessName != "Corner Bakery" {
		t.Errorf("expected trimmed business name, got %q", target.BusinessName)
	}
	if !target.HasBusinessMetadata() {
		t.Error("expected HasBusinessMetadata to be true")
	}
	if !target.HasSocialHandles() {
		t.Error("expected HasSocialHandles to be true")
	}
	platforms := target.SocialHandles.Platforms()
	if len(platforms) != 1 || platforms[0] != SocialPlatformInstagram {
		t.Errorf("expected only instagram, got %v", platforms)
	}
}

// TestTargetDomain tests registrable domain extraction.
func TestTargetDomain(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected string
	}{
		{"https://www.example.com", "example.com"},
		{"https://shop.example.co.uk/cart", "example.co.uk"},
		{"http://localhost:8080", "localhost"},
		{"http://127.0.0.1", "127.0.0.1"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			target, err := NewTarget(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := target.Domain(); got != tc.expected {
				t.Errorf("Domain() = %q, expected %q", got, tc.expected)
			}
		})
	}
}

// TestSocialPlatform tests SocialPlatform parsing and display.
func TestSocialPlatform(t *testing.T) {
	t.Parallel()

	t.Run("ParseSocialPlatform", func(t *testing.T) {
		t.Parallel()

		testCases := map[string]SocialPlatform{
			"instagram": SocialPlatformInstagram,
			"X":         SocialPlatformTwitter,
			"fb":        SocialPlatformFacebook,
			"LinkedIn":  SocialPlatformLinkedIn,
			"tiktok":    SocialPlatformTikTok,
			"youtube":   SocialPlatformYouTube,
			"myspace":   SocialPlatformUnknown,
		}
		for input, expected := range testCases {
			if got := ParseSocialPlatform(input); got != expected {
				t.Errorf("ParseSocialPlatform(%q) = %q, expected %q", input, got, expected)
			}
		}
	})

	t.Run("DisplayName", func(t *testing.T) {
		t.Parallel()

		testCases := map[SocialPlatform]string{
			SocialPlatformInstagram: "Instagram",
			SocialPlatformTwitter:   "Twitter",
			SocialPlatformLinkedIn:  "LinkedIn",
			SocialPlatformTikTok:    "TikTok",
			SocialPlatformYouTube:   "YouTube",
			SocialPlatformUnknown:   "Unknown",
		}
		for platform, expected := range testCases {
			if got := platform.DisplayName(); got != expected {
				t.Errorf("%q.DisplayName() = %q, expected %q", platform, got, expected)
			}
		}
	})

	t.Run("all platforms are valid", func(t *testing.T) {
		t.Parallel()

		for _, p := range AllSocialPlatforms() {
			if !p.IsValid() {
				t.Errorf("expected %q to be valid", p)
			}
		}
		if SocialPlatformUnknown.IsValid() {
			t.Error("expected unknown platform to be invalid")
		}
	})
}
