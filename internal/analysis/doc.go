// Package analysis provides the analysis modules that examine a website.
//
// Each module implements Module and focuses on one area of the audit.
// Modules are registered in a Registry; the registration order is fixed and
// a module's index is its priority, which the synthesizer uses to resolve
// subsections that more than one module could define.
//
// # Core Modules
//
// Registered for every target, in this order:
//   - Technical: architecture and infrastructure (AI-assisted)
//   - Content: copy quality and content gaps (AI-assisted)
//   - Visual: visual hierarchy and design scores
//   - Performance: load time, Core Web Vitals, Lighthouse scores
//   - SEO: keyword gaps and ranking opportunities (AI-assisted)
//   - Conversion: current and projected conversion rate (AI-assisted)
//   - Competitor: competitive positioning (AI-assisted)
//   - Security: security posture
//   - Mobile: mobile experience
//   - Accessibility: WCAG conformance
//
// # Presence Modules
//
// Registered after the core modules when the target carries business
// metadata: GoogleBusiness (business name), Maps (business name and
// location), and Social (at least one social handle).
//
// # Failure Handling
//
// AI-assisted modules never fail because of the provider. On
// ai.ErrProviderUnavailable, ai.ErrRateLimited, ai.ErrMalformedResponse, or
// an expired context they keep their baseline data, add a low-severity
// "<Module> analysis degraded" insight, and mark the result degraded.
package analysis
