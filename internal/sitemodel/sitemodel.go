// Package sitemodel defines the site data model shared by the editor
// surface, the export pipeline, and the publish/deploy layers. The JSON
// field names match the persisted project format and must not change
// without a grid version bump.
package sitemodel

// GridVersion is the current schema tag written into new projects.
const GridVersion = 2

// SiteData is the root value handed to the export pipeline. It is treated
// as an immutable snapshot; the pipeline never mutates it.
type SiteData struct {
	Profile     UserProfile `json:"profile" yaml:"profile"`
	Blocks      []BlockData `json:"blocks" yaml:"blocks"`
	GridVersion int         `json:"gridVersion,omitempty" yaml:"gridVersion,omitempty"`
}

// AvatarStyle describes how the profile picture is framed.
type AvatarStyle struct {
	Shape       string `json:"shape" yaml:"shape"` // "circle", "square" or "rounded"
	Shadow      bool   `json:"shadow" yaml:"shadow"`
	Border      bool   `json:"border" yaml:"border"`
	BorderColor string `json:"borderColor,omitempty" yaml:"borderColor,omitempty"`
	BorderWidth int    `json:"borderWidth,omitempty" yaml:"borderWidth,omitempty"`
}

// OpenGraphData holds the social sharing meta tags. All fields are
// optional; the renderer falls back to profile name/bio.
type OpenGraphData struct {
	Title           string `json:"title,omitempty" yaml:"title,omitempty"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	Image           string `json:"image,omitempty" yaml:"image,omitempty"`
	SiteName        string `json:"siteName,omitempty" yaml:"siteName,omitempty"`
	TwitterHandle   string `json:"twitterHandle,omitempty" yaml:"twitterHandle,omitempty"`
	TwitterCardType string `json:"twitterCardType,omitempty" yaml:"twitterCardType,omitempty"` // "summary" or "summary_large_image"
}

// SocialAccount is one configured social profile shown in the header row.
type SocialAccount struct {
	Platform      string `json:"platform" yaml:"platform"`
	Handle        string `json:"handle" yaml:"handle"`
	FollowerCount int    `json:"followerCount,omitempty" yaml:"followerCount,omitempty"`
}

// AnalyticsConfig enables the generated view-beacon hook.
type AnalyticsConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// UserProfile is the page header identity plus site-wide styling and SEO
// metadata. AvatarURL and BackgroundImage hold either an external URL or
// an inline data: URI; no other forms are valid.
type UserProfile struct {
	Name               string           `json:"name" yaml:"name"`
	Bio                string           `json:"bio" yaml:"bio"`
	AvatarURL          string           `json:"avatarUrl" yaml:"avatarUrl"`
	AvatarStyle        *AvatarStyle     `json:"avatarStyle,omitempty" yaml:"avatarStyle,omitempty"`
	Theme              string           `json:"theme,omitempty" yaml:"theme,omitempty"` // "light" or "dark"
	PrimaryColor       string           `json:"primaryColor,omitempty" yaml:"primaryColor,omitempty"`
	ShowBranding       *bool            `json:"showBranding,omitempty" yaml:"showBranding,omitempty"`
	ShowSocialInHeader bool             `json:"showSocialInHeader,omitempty" yaml:"showSocialInHeader,omitempty"`
	ShowFollowerCount  bool             `json:"showFollowerCount,omitempty" yaml:"showFollowerCount,omitempty"`
	BackgroundColor    string           `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	BackgroundImage    string           `json:"backgroundImage,omitempty" yaml:"backgroundImage,omitempty"`
	BackgroundBlur     int              `json:"backgroundBlur,omitempty" yaml:"backgroundBlur,omitempty"`
	Analytics          *AnalyticsConfig `json:"analytics,omitempty" yaml:"analytics,omitempty"`
	SocialAccounts     []SocialAccount  `json:"socialAccounts,omitempty" yaml:"socialAccounts,omitempty"`
	OpenGraph          *OpenGraphData   `json:"openGraph,omitempty" yaml:"openGraph,omitempty"`
}

// BrandingVisible reports whether the "made with" footer should render.
// Branding defaults to visible when the flag is unset.
func (p *UserProfile) BrandingVisible() bool {
	return p.ShowBranding == nil || *p.ShowBranding
}

// EffectiveAvatarStyle returns the avatar style with defaults applied.
func (p *UserProfile) EffectiveAvatarStyle() AvatarStyle {
	if p.AvatarStyle != nil {
		s := *p.AvatarStyle
		if s.BorderColor == "" {
			s.BorderColor = "#ffffff"
		}
		if s.BorderWidth == 0 {
			s.BorderWidth = 4
		}
		return s
	}
	return AvatarStyle{Shape: "rounded", Shadow: true, Border: true, BorderColor: "#ffffff", BorderWidth: 4}
}

// AnalyticsEnabled reports whether the generated site should include the
// view-beacon hook.
func (p *UserProfile) AnalyticsEnabled() bool {
	return p.Analytics != nil && p.Analytics.Enabled
}
