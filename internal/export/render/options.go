// Package render holds the pure template functions of the export
// pipeline: each takes the site snapshot, the media lookup table and the
// export options, and returns source text for one output artifact.
package render

import "git.home.luguber.info/inful/bentoforge/internal/export/media"

// DeploymentTarget selects the output conventions of an export.
type DeploymentTarget string

const (
	// TargetStaticHTML produces a self-contained static page
	// (index.html + app.js + styles.css).
	TargetStaticHTML DeploymentTarget = "static-html"

	// TargetFrameworkProject produces a Vite/React project source tree.
	TargetFrameworkProject DeploymentTarget = "framework-project"
)

// Valid reports whether t is a recognized deployment target.
func (t DeploymentTarget) Valid() bool {
	return t == TargetStaticHTML || t == TargetFrameworkProject
}

// Options is the export-options bag passed through the pipeline.
type Options struct {
	DeploymentTarget     DeploymentTarget
	IncludeServiceWorker bool
	IncludeAnalytics     bool
	// RemoveBranding hides the footer attribution. Only honored when the
	// caller's capability set grants it; the orchestrator enforces that.
	RemoveBranding bool
}

// DefaultOptions returns the options used when the caller passes none.
func DefaultOptions() Options {
	return Options{
		DeploymentTarget:     TargetFrameworkProject,
		IncludeServiceWorker: true,
		IncludeAnalytics:     true,
	}
}

// resolve substitutes a media map entry for a field value. When the key
// is absent the original field value is used verbatim; this single
// indirection serves both embedded-media and external-URL inputs.
func resolve(m media.Map, key, original string) string {
	if mapped, ok := m[key]; ok {
		return mapped
	}
	return original
}
