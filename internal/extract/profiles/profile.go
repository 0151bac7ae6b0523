// Package profiles picks the selector set used for a page based on its URL.
package profiles

import (
	"net/url"
	"strings"

	"github.com/ppiankov/vehiclex/internal/model"
)

// Profile defines the selectors of one site layout
type Profile interface {
	// Name returns the profile name
	Name() string

	// CanHandle checks if this profile applies to the given page URL
	CanHandle(pageURL string) bool

	// Selectors returns the CSS selectors for this layout
	Selectors() model.Selectors
}

// Registry manages site profiles
type Registry struct {
	profiles []Profile
	generic  Profile
}

// NewRegistry creates a registry with the built-in site profiles. The
// generic fallback uses the configured selectors.
func NewRegistry(selectors model.Selectors) *Registry {
	registry := &Registry{
		profiles: make([]Profile, 0),
	}

	// Register built-in profiles
	registry.Register(NewEurocarProfile())

	registry.generic = NewGenericProfile(selectors)

	return registry
}

// Register registers a new profile. Profiles are tried in registration order.
func (r *Registry) Register(profile Profile) {
	r.profiles = append(r.profiles, profile)
}

// Find returns the first profile that handles pageURL, or the generic one
func (r *Registry) Find(pageURL string) Profile {
	for _, profile := range r.profiles {
		if profile.CanHandle(pageURL) {
			return profile
		}
	}
	return r.generic
}

// All returns every profile, the generic fallback last
func (r *Registry) All() []Profile {
	all := make([]Profile, 0, len(r.profiles)+1)
	all = append(all, r.profiles...)
	return append(all, r.generic)
}

// hostMatches reports whether pageURL's host is domain or a subdomain of it
func hostMatches(pageURL string, domain string) bool {
	if pageURL == "" {
		return false
	}
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return host == domain || strings.HasSuffix(host, "."+domain)
}
