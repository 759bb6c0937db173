package render

import (
	"strings"
	"text/template"

	"git.home.luguber.info/inful/bentoforge/internal/export/media"
	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

// headData feeds the HTML shell template. All string fields are
// pre-escaped by seoFields.
type headData struct {
	Title           string
	Description     string
	ThemeColor      string
	OGTitle         string
	OGDescription   string
	OGImage         string
	OGSiteName      string
	TwitterHandle   string
	TwitterCardType string
	ServiceWorker   bool
	Body            string
	EntryScript     string
	Stylesheets     []string
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <meta name="description" content="{{.Description}}" />
    <meta name="theme-color" content="{{.ThemeColor}}" />

    <!-- Open Graph / Facebook -->
    <meta property="og:type" content="website" />
    <meta property="og:title" content="{{.OGTitle}}" />
    <meta property="og:description" content="{{.OGDescription}}" />
{{- if .OGImage}}
    <meta property="og:image" content="{{.OGImage}}" />
{{- end}}
    <meta property="og:site_name" content="{{.OGSiteName}}" />

    <!-- Twitter -->
    <meta property="twitter:card" content="{{.TwitterCardType}}" />
{{- if .TwitterHandle}}
    <meta property="twitter:site" content="{{.TwitterHandle}}" />
{{- end}}
    <meta property="twitter:title" content="{{.OGTitle}}" />
    <meta property="twitter:description" content="{{.OGDescription}}" />
{{- if .OGImage}}
    <meta property="twitter:image" content="{{.OGImage}}" />
{{- end}}

    <link rel="manifest" href="/manifest.json" />
    <link rel="apple-touch-icon" href="/icon-192x192.png" />
    <meta name="apple-mobile-web-app-capable" content="yes" />
    <meta name="apple-mobile-web-app-title" content="{{.Title}}" />
    <link href="https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700;800&display=swap" rel="stylesheet">
{{- range .Stylesheets}}
    <link rel="stylesheet" href="{{.}}" />
{{- end}}
    <title>{{.Title}}</title>
{{- if .ServiceWorker}}
    <script>
      if ('serviceWorker' in navigator) {
        window.addEventListener('load', () => {
          navigator.serviceWorker.register('/sw.js').catch(() => {});
        });
      }
    </script>
{{- end}}
  </head>
  <body>
{{.Body}}
{{- if .EntryScript}}
    {{.EntryScript}}
{{- end}}
  </body>
</html>
`))

// RenderIndexHTML produces the SEO-tagged HTML shell. For the framework
// target the body is the mount point plus module entry; for the static
// target the body is the fully rendered page.
func RenderIndexHTML(site *sitemodel.SiteData, m media.Map, opts Options) (string, error) {
	profile := &site.Profile
	seo := seoFields(profile, m)

	data := headData{
		Title:           seo.title,
		Description:     seo.description,
		ThemeColor:      seo.themeColor,
		OGTitle:         seo.ogTitle,
		OGDescription:   seo.ogDescription,
		OGImage:         seo.ogImage,
		OGSiteName:      seo.ogSiteName,
		TwitterHandle:   seo.twitterHandle,
		TwitterCardType: seo.twitterCardType,
		ServiceWorker:   opts.IncludeServiceWorker,
	}

	switch opts.DeploymentTarget {
	case TargetStaticHTML:
		data.Body = RenderPageBody(site, m, opts)
		data.EntryScript = `<script src="/app.js"></script>`
		data.Stylesheets = []string{"/styles.css"}
	default:
		data.Body = `    <div id="root"></div>`
		data.EntryScript = `<script type="module" src="/src/main.tsx"></script>`
	}

	var b strings.Builder
	if err := indexTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

type seo struct {
	title, description, themeColor           string
	ogTitle, ogDescription, ogImage          string
	ogSiteName, twitterHandle, twitterCardType string
}

// seoFields applies the OpenGraph fallback chain: og title falls back to
// the profile name, og description to the bio, og image to the media map
// entry, then the raw og field, then the avatar. Every field comes back
// escaped for attribute positions; callers interpolate them as-is.
func seoFields(profile *sitemodel.UserProfile, m media.Map) seo {
	og := profile.OpenGraph
	if og == nil {
		og = &sitemodel.OpenGraphData{}
	}

	s := seo{
		title:      EscapeHTML(profile.Name),
		themeColor: EscapeHTML(profile.PrimaryColor),
	}
	if s.themeColor == "" {
		s.themeColor = "#6366f1"
	}

	description := profile.Bio
	if description == "" {
		description = profile.Name + "'s link-in-bio page"
	}
	s.description = EscapeHTML(description)

	s.ogTitle = EscapeHTML(firstNonEmpty(og.Title, profile.Name))
	s.ogDescription = EscapeHTML(firstNonEmpty(og.Description, profile.Bio))
	s.ogSiteName = EscapeHTML(firstNonEmpty(og.SiteName, profile.Name))

	s.ogImage = EscapeHTML(firstNonEmpty(
		m[media.KeyOGImage],
		og.Image,
		m[media.KeyAvatar],
		profile.AvatarURL,
	))

	if og.TwitterHandle != "" {
		s.twitterHandle = EscapeHTML("@" + strings.TrimPrefix(og.TwitterHandle, "@"))
	}
	s.twitterCardType = EscapeHTML(firstNonEmpty(og.TwitterCardType, "summary_large_image"))
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
