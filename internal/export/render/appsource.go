package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/bentoforge/internal/export/media"
	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

// substitutedSite returns copies of the profile and blocks with media
// map entries substituted for extracted fields, ready for JSON
// embedding in generated application source.
func substitutedSite(site *sitemodel.SiteData, m media.Map) (sitemodel.UserProfile, []sitemodel.BlockData) {
	profile := site.Profile
	profile.AvatarURL = resolve(m, media.KeyAvatar, profile.AvatarURL)
	profile.BackgroundImage = resolve(m, media.KeyBackground, profile.BackgroundImage)
	if profile.OpenGraph != nil {
		og := *profile.OpenGraph
		og.Image = resolve(m, media.KeyOGImage, og.Image)
		profile.OpenGraph = &og
	}

	blocks := make([]sitemodel.BlockData, len(site.Blocks))
	copy(blocks, site.Blocks)
	for i := range blocks {
		blocks[i].ImageURL = resolve(m, media.BlockKey(blocks[i].ID), blocks[i].ImageURL)
	}
	return profile, blocks
}

// RenderAppSource generates src/App.tsx for the framework-project
// target: inline profile/block data, per-block rendering, desktop and
// mobile layout variants and the optional analytics hook.
func RenderAppSource(site *sitemodel.SiteData, m media.Map, opts Options) (string, error) {
	profile, blocks := substitutedSite(site, m)

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	blocksJSON, err := json.Marshal(blocks)
	if err != nil {
		return "", fmt.Errorf("marshal blocks: %w", err)
	}

	var b strings.Builder
	b.WriteString("import React, { useEffect } from 'react'\n")
	b.WriteString("import { HelmetProvider, Helmet } from 'react-helmet-async'\n\n")

	b.WriteString("// Inline site data generated at export time.\n")
	fmt.Fprintf(&b, "const profile: any = %s\n", profileJSON)
	fmt.Fprintf(&b, "const blocks: any[] = %s\n\n", blocksJSON)

	b.WriteString(appAnalyticsHook(site, opts))
	b.WriteString(appRuntimeSource)

	seo := seoFields(&site.Profile, m)
	fmt.Fprintf(&b, seoComponentTemplate,
		seo.title, seo.description, seo.themeColor,
		seo.ogTitle, seo.ogDescription,
		metaTag("og:image", seo.ogImage),
		seo.ogSiteName,
		seo.twitterCardType,
		metaTag("twitter:site", seo.twitterHandle),
		seo.ogTitle, seo.ogDescription,
		metaTag("twitter:image", seo.ogImage),
	)

	branding := "false"
	if site.Profile.BrandingVisible() && !opts.RemoveBranding {
		branding = "true"
	}
	fmt.Fprintf(&b, appShellTemplate, branding)
	return b.String(), nil
}

// metaTag emits one meta element. Content arrives pre-escaped from
// seoFields.
func metaTag(property, content string) string {
	if content == "" {
		return ""
	}
	return fmt.Sprintf(`<meta property="%s" content="%s" />`, property, content)
}

// appAnalyticsHook emits the view-beacon hook, or a no-op when
// analytics are disabled.
func appAnalyticsHook(site *sitemodel.SiteData, opts Options) string {
	if !opts.IncludeAnalytics || !site.Profile.AnalyticsEnabled() {
		return "function useAnalytics() {}\n\n"
	}
	endpoint := ""
	if site.Profile.Analytics != nil {
		endpoint = site.Profile.Analytics.Endpoint
	}
	return fmt.Sprintf(`function useAnalytics() {
  useEffect(() => {
    const endpoint = %q
    if (!endpoint) return
    fetch(endpoint, {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({ path: location.pathname, referrer: document.referrer }),
      keepalive: true,
    }).catch(() => {})
  }, [])
}

`, endpoint)
}

// appRuntimeSource is the data-independent portion of the generated
// application: block renderer, layout helpers and ordering.
const appRuntimeSource = `function compactOrder(list: any[]) {
  return [...list].sort((a, b) => {
    const ar = a.gridRow ?? 999
    const br = b.gridRow ?? 999
    const ac = a.gridColumn ?? 999
    const bc = b.gridColumn ?? 999
    if (ar !== br) return ar - br
    return ac - bc
  })
}

function blockStyle(block: any, placed: boolean): React.CSSProperties {
  const colSpan = Math.min(Math.max(block.colSpan || 1, 1), 9)
  const rowSpan = Math.max(block.rowSpan || 1, 1)
  const style: React.CSSProperties = placed && block.gridColumn && block.gridRow
    ? { gridColumn: block.gridColumn + ' / span ' + colSpan, gridRow: block.gridRow + ' / span ' + rowSpan }
    : { gridColumn: 'span ' + colSpan, gridRow: 'span ' + rowSpan }
  if (block.customBackground) style.background = block.customBackground
  return style
}

function Block({ block, placed }: { block: any; placed: boolean }) {
  const cls = ['block', block.color, block.textColor].filter(Boolean).join(' ')
  const style = blockStyle(block, placed)
  switch (block.type) {
    case 'LINK':
      if (!block.content) return null
      return (
        <a className={cls} style={style} href={block.content} target="_blank" rel="noopener noreferrer">
          {block.imageUrl && <img src={block.imageUrl} alt="" loading="lazy" />}
          {block.title && <span className="block-title">{block.title}</span>}
          {block.subtext && <span className="block-subtext">{block.subtext}</span>}
        </a>
      )
    case 'TEXT':
      return (
        <div className={cls} style={style}>
          {block.title && <h3>{block.title}</h3>}
          <p>{block.content}</p>
        </div>
      )
    case 'MEDIA':
      if (!block.imageUrl) return null
      return (
        <div className={cls} style={style}>
          {/\.(mp4|webm|ogv|mov)$/i.test(block.imageUrl)
            ? <video src={block.imageUrl} autoPlay loop muted playsInline />
            : <img src={block.imageUrl} alt={block.title || ''} loading="lazy" />}
        </div>
      )
    case 'SOCIAL':
    case 'SOCIAL_ICON':
      if (!block.socialPlatform || !block.socialHandle) return null
      return (
        <a className={cls} style={style} href={socialUrl(block.socialPlatform, block.socialHandle)} target="_blank" rel="noopener noreferrer">
          <span className={'social-icon icon-' + block.socialPlatform}></span>
          {block.type === 'SOCIAL' && <span className="block-title">{block.title || '@' + block.socialHandle}</span>}
        </a>
      )
    case 'MAP':
    case 'MAP_EMBED': {
      const src = block.mapEmbedUrl
        || (block.mapAddress || block.content
          ? 'https://maps.google.com/maps?q=' + encodeURIComponent(block.mapAddress || block.content) + '&output=embed'
          : '')
      if (!src) return null
      return <div className={cls} style={style}><iframe src={src} loading="lazy" /></div>
    }
    case 'RATING':
      if (!block.ratingValue) return null
      return (
        <div className={cls} style={style}>
          <span className="block-title">{block.title || 'Rating'}</span>
          <span className="rating-value">{Number(block.ratingValue).toFixed(1)}</span>
          {block.ratingCount ? <span className="rating-count">{block.ratingCount} reviews</span> : null}
        </div>
      )
    case 'QR_CODE':
      if (!block.qrContent) return null
      return (
        <div className={cls} style={style}>
          <div className="qr-canvas" data-qr-content={block.qrContent}></div>
          {block.qrLabel && <span className="qr-label">{block.qrLabel}</span>}
        </div>
      )
    case 'YOUTUBE':
      if (!block.youtubeVideoId) return null
      return (
        <div className={cls} style={style}>
          <iframe src={'https://www.youtube-nocookie.com/embed/' + block.youtubeVideoId} loading="lazy" allowFullScreen />
        </div>
      )
    case 'SPACER':
      return <div className={cls} style={style} aria-hidden="true" />
    default:
      // Unknown block types render nothing rather than failing the page.
      return null
  }
}

function socialUrl(platform: string, handle: string) {
  const h = handle.replace(/^@/, '')
  if (/^https?:\/\//.test(h)) return h
  const bases: Record<string, string> = {
    x: 'https://x.com/', instagram: 'https://instagram.com/', tiktok: 'https://tiktok.com/@',
    youtube: 'https://youtube.com/@', github: 'https://github.com/', linkedin: 'https://linkedin.com/in/',
  }
  return (bases[platform] || 'https://') + h
}

`

const seoComponentTemplate = `function SEO() {
  return (
    <Helmet>
      <title>%s</title>
      <meta name="description" content="%s" />
      <meta name="theme-color" content="%s" />
      <meta property="og:type" content="website" />
      <meta property="og:title" content="%s" />
      <meta property="og:description" content="%s" />
      %s
      <meta property="og:site_name" content="%s" />
      <meta property="twitter:card" content="%s" />
      %s
      <meta property="twitter:title" content="%s" />
      <meta property="twitter:description" content="%s" />
      %s
    </Helmet>
  )
}

`

const appShellTemplate = `function AppContent() {
  useAnalytics()
  const showBranding = %s
  const bgStyle: React.CSSProperties = profile.backgroundImage
    ? { backgroundImage: "url('" + profile.backgroundImage + "')", backgroundSize: 'cover', backgroundPosition: 'center', backgroundAttachment: 'fixed' }
    : { backgroundColor: profile.backgroundColor || '#f8fafc' }

  return (
    <div className="page" style={bgStyle}>
      <SEO />
      <header className="profile">
        {profile.avatarUrl && <img className="avatar" src={profile.avatarUrl} alt={profile.name} />}
        <h1>{profile.name}</h1>
        {profile.bio && <p className="bio">{profile.bio}</p>}
      </header>
      <main className="grid grid-desktop">
        {blocks.map((b) => <Block key={b.id} block={b} placed />)}
      </main>
      <main className="grid grid-mobile">
        {compactOrder(blocks).map((b) => <Block key={b.id} block={b} placed={false} />)}
      </main>
      {showBranding && (
        <footer className="branding">
          <a href="https://bentoforge.dev" target="_blank" rel="noopener noreferrer">Made with BentoForge</a>
        </footer>
      )}
    </div>
  )
}

export default function App() {
  return (
    <HelmetProvider>
      <AppContent />
    </HelmetProvider>
  )
}
`

// RenderMainEntry generates src/main.tsx.
func RenderMainEntry() string {
	return `import React from 'react'
import ReactDOM from 'react-dom/client'
import App from './App'
import './index.css'

ReactDOM.createRoot(document.getElementById('root')!).render(
  <React.StrictMode>
    <App />
  </React.StrictMode>,
)
`
}
