package model

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Target is an immutable description of the website to audit.
// Construct it with NewTarget; analysis modules receive it by value and
// must treat it as read-only.
type Target struct {
	// URL is the normalized absolute http(s) URL of the site.
	URL string `json:"url"`

	// BusinessName is the optional trading name used by the local presence modules.
	BusinessName string `json:"businessName,omitempty"`

	// Location is the optional city or address used by the maps module.
	Location string `json:"location,omitempty"`

	// SocialHandles are the optional social accounts of the business.
	SocialHandles SocialHandles `json:"socialHandles,omitempty"`
}

// TargetOption configures optional Target metadata.
type TargetOption func(*Target)

// WithBusinessName sets the business name.
func WithBusinessName(name string) TargetOption {
	return func(t *Target) {
		t.BusinessName = strings.TrimSpace(name)
	}
}

// WithLocation sets the business location.
func WithLocation(location string) TargetOption {
	return func(t *Target) {
		t.Location = strings.TrimSpace(location)
	}
}

// WithSocialHandles sets the social handles. Unknown platforms and empty
// handles are dropped.
func WithSocialHandles(handles SocialHandles) TargetOption {
	return func(t *Target) {
		clean := make(SocialHandles)
		for p, handle := range handles {
			handle = strings.TrimSpace(handle)
			if p.IsValid() && handle != "" {
				clean[p] = handle
			}
		}
		if len(clean) > 0 {
			t.SocialHandles = clean
		}
	}
}

// NewTarget validates rawURL and returns a Target.
// A URL without scheme is assumed to be https.
func NewTarget(rawURL string, opts ...TargetOption) (Target, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return Target{}, ErrEmptyTargetURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, ErrInvalidTargetURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return Target{}, ErrInvalidTargetURL
	}
	if u.Hostname() == "" || strings.ContainsAny(u.Host, " \t") {
		return Target{}, ErrInvalidTargetURL
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	t := Target{URL: u.String()}
	for _, opt := range opts {
		opt(&t)
	}
	return t, nil
}

// Host returns the hostname of the target without port.
func (t Target) Host() string {
	u, err := url.Parse(t.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Domain returns the registrable domain (eTLD+1) of the target.
// Falls back to the hostname for hosts without a public suffix, such as
// localhost or IP addresses.
func (t Target) Domain() string {
	host := t.Host()
	if net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// HasBusinessMetadata reports whether local presence analysis applies.
func (t Target) HasBusinessMetadata() bool {
	return t.BusinessName != ""
}

// HasSocialHandles reports whether social presence analysis applies.
func (t Target) HasSocialHandles() bool {
	return len(t.SocialHandles.Platforms()) > 0
}
