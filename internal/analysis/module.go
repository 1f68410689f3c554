package analysis

import (
	"context"
	"strings"

	"github.com/nao1215/siteaudit/internal/ai"
	"github.com/nao1215/siteaudit/internal/model"
)

// Module names. Names are also the keys used to disable modules in the
// configuration file.
const (
	NameTechnical      = "Technical"
	NameContent        = "Content"
	NameVisual         = "Visual"
	NamePerformance    = "Performance"
	NameSEO            = "SEO"
	NameConversion     = "Conversion"
	NameCompetitor     = "Competitor"
	NameSecurity       = "Security"
	NameMobile         = "Mobile"
	NameAccessibility  = "Accessibility"
	NameGoogleBusiness = "GoogleBusiness"
	NameMaps           = "Maps"
	NameSocial         = "Social"
)

// ModuleNames returns every known module name in registration order.
func ModuleNames() []string {
	return []string{
		NameTechnical, NameContent, NameVisual, NamePerformance, NameSEO,
		NameConversion, NameCompetitor, NameSecurity, NameMobile, NameAccessibility,
		NameGoogleBusiness, NameMaps, NameSocial,
	}
}

// IsModuleName reports whether name (case-insensitive) is a known module.
func IsModuleName(name string) bool {
	name = strings.TrimSpace(name)
	for _, n := range ModuleNames() {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// Module analyzes one aspect of a website.
//
// Analyze must not mutate target and must absorb failures of the AI
// provider itself: when the provider is unavailable, rate limited, or
// answers malformed content, the module returns its default data plus one
// low-severity "<Name> analysis degraded" insight and a nil error. Any
// error that is returned, a panic, or running past the deadline is handled
// by the orchestrator, which substitutes a generic fallback.
type Module interface {
	// Name returns the module's name for logging and reporting.
	Name() string

	// Category returns the insight category the module mainly reports on.
	Category() model.Category

	// Analyze runs the analysis.
	Analyze(ctx context.Context, target model.Target, provider ai.Provider) (model.PartialResult, error)
}

// Registry holds modules in registration order.
// A module's index in the registry is its priority.
type Registry struct {
	modules []Module
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{modules: make([]Module, 0)}
}

// Register appends a module.
func (r *Registry) Register(m Module) {
	r.modules = append(r.modules, m)
}

// Modules returns the registered modules in registration order.
func (r *Registry) Modules() []Module {
	out := make([]Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return len(r.modules)
}

// Names returns the registered module names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modules))
	for _, m := range r.modules {
		names = append(names, m.Name())
	}
	return names
}

// Options configures which modules NewDefaultRegistry registers.
type Options struct {
	// DisabledModules are module names (case-insensitive) to leave out.
	DisabledModules []string

	// EnablePresence registers the Google Business, Maps, and Social modules
	// when the target carries the metadata they need.
	EnablePresence bool
}

// DefaultOptions returns the default registry options.
func DefaultOptions() Options {
	return Options{
		EnablePresence: true,
	}
}

// WithoutModules disables the named modules.
func WithoutModules(names ...string) func(*Options) {
	return func(o *Options) {
		o.DisabledModules = append(o.DisabledModules, names...)
	}
}

// WithoutPresence disables the business presence modules.
func WithoutPresence() func(*Options) {
	return func(o *Options) {
		o.EnablePresence = false
	}
}

// NewDefaultRegistry registers the ten core modules in their fixed order,
// followed by the presence modules the target qualifies for.
func NewDefaultRegistry(target model.Target, opts ...func(*Options)) *Registry {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	disabled := make(map[string]bool, len(options.DisabledModules))
	for _, name := range options.DisabledModules {
		disabled[strings.ToLower(strings.TrimSpace(name))] = true
	}

	r := NewRegistry()
	register := func(m Module) {
		if !disabled[strings.ToLower(m.Name())] {
			r.Register(m)
		}
	}

	// Core modules
	register(NewTechnicalModule())
	register(NewContentModule())
	register(NewVisualModule())
	register(NewPerformanceModule())
	register(NewSEOModule())
	register(NewConversionModule())
	register(NewCompetitorModule())
	register(NewSecurityModule())
	register(NewMobileModule())
	register(NewAccessibilityModule())

	// Presence modules
	if options.EnablePresence {
		if target.HasBusinessMetadata() {
			register(NewGoogleBusinessModule())
			if target.Location != "" {
				register(NewMapsModule())
			}
		}
		if target.HasSocialHandles() {
			register(NewSocialModule())
		}
	}

	return r
}
