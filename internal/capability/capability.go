// Package capability models subscription-tier feature gating as a single
// capability set checked through one predicate, instead of one boolean
// flag per feature.
package capability

// Capability is one gated feature.
type Capability string

const (
	CustomDomain      Capability = "custom_domain"
	RemoveBranding    Capability = "remove_branding"
	AdvancedAnalytics Capability = "advanced_analytics"
	CustomCSS         Capability = "custom_css"
	LivePreview       Capability = "live_preview"
	AllPlatformExport Capability = "all_platform_export"
	PrioritySupport   Capability = "priority_support"
	NoAds             Capability = "no_ads"
)

// Unlimited marks a limit with no cap.
const Unlimited = -1

// Set is an immutable capability set plus numeric limits for one tier.
type Set struct {
	caps                map[Capability]struct{}
	MaxProjects         int
	MaxBlocksPerProject int
}

// NewSet builds a Set from the given capabilities and limits.
func NewSet(maxProjects, maxBlocks int, caps ...Capability) Set {
	m := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		m[c] = struct{}{}
	}
	return Set{caps: m, MaxProjects: maxProjects, MaxBlocksPerProject: maxBlocks}
}

// Has reports whether the set grants the capability.
func (s Set) Has(c Capability) bool {
	_, ok := s.caps[c]
	return ok
}

// WithinProjectLimit reports whether another project may be created.
func (s Set) WithinProjectLimit(current int) bool {
	return s.MaxProjects == Unlimited || current < s.MaxProjects
}

// WithinBlockLimit reports whether another block may be added.
func (s Set) WithinBlockLimit(current int) bool {
	return s.MaxBlocksPerProject == Unlimited || current < s.MaxBlocksPerProject
}

// FreeTier is the default capability set.
func FreeTier() Set {
	return NewSet(3, 15)
}

// ProTier grants every capability with no limits.
func ProTier() Set {
	return NewSet(Unlimited, Unlimited,
		CustomDomain, RemoveBranding, AdvancedAnalytics, CustomCSS,
		LivePreview, AllPlatformExport, PrioritySupport, NoAds)
}

// ForTier returns the capability set for a named tier. Unknown tiers get
// the free set.
func ForTier(tier string) Set {
	if tier == "pro" {
		return ProTier()
	}
	return FreeTier()
}
