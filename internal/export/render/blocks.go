package render

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/bentoforge/internal/export/media"
	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

var markdown = goldmark.New()

// RenderBlockHTML renders one block as static markup. Rendering is
// total: an unrecognized type (or a block missing its required fields)
// yields an empty string, never an error, so one bad block cannot sink
// the export.
func RenderBlockHTML(block *sitemodel.BlockData, m media.Map) string {
	switch block.Type {
	case sitemodel.BlockLink:
		return renderLink(block, m)
	case sitemodel.BlockText:
		return renderText(block)
	case sitemodel.BlockMedia:
		return renderMedia(block, m)
	case sitemodel.BlockSocial, sitemodel.BlockSocialIcon:
		return renderSocial(block)
	case sitemodel.BlockMap, sitemodel.BlockMapEmbed:
		return renderMap(block)
	case sitemodel.BlockRating:
		return renderRating(block)
	case sitemodel.BlockQRCode:
		return renderQR(block)
	case sitemodel.BlockYouTube:
		return renderYouTube(block)
	case sitemodel.BlockChart:
		return renderChart(block)
	case sitemodel.BlockCustomHTML:
		return renderCustom(block)
	case sitemodel.BlockSpacer:
		return `<div class="block block-spacer" aria-hidden="true"></div>`
	default:
		return ""
	}
}

func blockOpen(block *sitemodel.BlockData, kind string) string {
	colSpan, rowSpan := block.NormalizedSpan()
	style := fmt.Sprintf("grid-column: span %d; grid-row: span %d;", colSpan, rowSpan)
	if block.Placed() {
		style = fmt.Sprintf("grid-column: %d / span %d; grid-row: %d / span %d;",
			block.GridColumn, colSpan, block.GridRow, rowSpan)
	}
	if block.CustomBackground != "" {
		style += " background: " + block.CustomBackground + ";"
	}
	classes := "block block-" + kind
	if block.Color != "" {
		classes += " " + block.Color
	}
	if block.TextColor != "" {
		classes += " " + block.TextColor
	}
	return fmt.Sprintf(`<div class="%s" data-block-id="%s" style="%s">`,
		EscapeHTML(classes), EscapeHTML(block.ID), EscapeHTML(style))
}

func renderLink(block *sitemodel.BlockData, m media.Map) string {
	v := block.Link()
	if v.URL == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(blockOpen(block, "link"))
	fmt.Fprintf(&b, `<a href="%s" target="_blank" rel="noopener noreferrer">`, EscapeHTML(v.URL))
	if img := resolve(m, media.BlockKey(block.ID), v.ImageURL); img != "" {
		fmt.Fprintf(&b, `<img src="%s" alt="" loading="lazy" />`, EscapeHTML(img))
	}
	if v.Title != "" {
		fmt.Fprintf(&b, `<span class="block-title">%s</span>`, EscapeHTML(v.Title))
	}
	if v.Subtext != "" {
		fmt.Fprintf(&b, `<span class="block-subtext">%s</span>`, EscapeHTML(v.Subtext))
	}
	b.WriteString(`</a></div>`)
	return b.String()
}

func renderText(block *sitemodel.BlockData) string {
	v := block.Text()
	var b strings.Builder
	b.WriteString(blockOpen(block, "text"))
	if v.Title != "" {
		fmt.Fprintf(&b, `<h3>%s</h3>`, EscapeHTML(v.Title))
	}
	// Goldmark's default renderer omits raw HTML, so the source text
	// goes in unescaped to keep markdown syntax like blockquotes alive.
	var body bytes.Buffer
	if err := markdown.Convert([]byte(v.Text), &body); err != nil {
		// Escaped plain text still renders when markdown conversion fails.
		fmt.Fprintf(&b, `<p>%s</p>`, EscapeHTML(v.Text))
	} else {
		b.Write(body.Bytes())
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderMedia(block *sitemodel.BlockData, m media.Map) string {
	v := block.Media()
	src := resolve(m, media.BlockKey(block.ID), v.Source)
	if src == "" {
		return ""
	}
	position := ""
	if v.Position != nil {
		position = fmt.Sprintf(` style="object-position: %d%% %d%%;"`, v.Position.X, v.Position.Y)
	}
	tag := fmt.Sprintf(`<img src="%s" alt="%s" loading="lazy"%s />`,
		EscapeHTML(src), EscapeHTML(v.Title), position)
	if isVideoPath(src) {
		tag = fmt.Sprintf(`<video src="%s" autoplay loop muted playsinline%s></video>`,
			EscapeHTML(src), position)
	}
	return blockOpen(block, "media") + tag + `</div>`
}

func isVideoPath(src string) bool {
	if strings.HasPrefix(src, "data:video") {
		return true
	}
	for _, ext := range []string{".mp4", ".webm", ".ogv", ".mov"} {
		if strings.HasSuffix(strings.ToLower(src), ext) {
			return true
		}
	}
	return false
}

// socialBaseURLs maps platforms to their profile URL prefix. Platforms
// missing here fall back to treating the handle as a full URL.
var socialBaseURLs = map[string]string{
	"x":           "https://x.com/",
	"instagram":   "https://instagram.com/",
	"tiktok":      "https://tiktok.com/@",
	"youtube":     "https://youtube.com/@",
	"github":      "https://github.com/",
	"gitlab":      "https://gitlab.com/",
	"linkedin":    "https://linkedin.com/in/",
	"facebook":    "https://facebook.com/",
	"twitch":      "https://twitch.tv/",
	"dribbble":    "https://dribbble.com/",
	"medium":      "https://medium.com/@",
	"devto":       "https://dev.to/",
	"reddit":      "https://reddit.com/u/",
	"pinterest":   "https://pinterest.com/",
	"threads":     "https://threads.net/@",
	"bluesky":     "https://bsky.app/profile/",
	"mastodon":    "https://mastodon.social/@",
	"substack":    "https://substack.com/@",
	"patreon":     "https://patreon.com/",
	"kofi":        "https://ko-fi.com/",
	"buymeacoffee": "https://buymeacoffee.com/",
	"snapchat":    "https://snapchat.com/add/",
	"telegram":    "https://t.me/",
	"spotify":     "https://open.spotify.com/user/",
}

// SocialProfileURL builds the public profile URL for a platform/handle
// pair. Handles that already look like URLs pass through.
func SocialProfileURL(platform, handle string) string {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if strings.HasPrefix(handle, "http://") || strings.HasPrefix(handle, "https://") {
		return handle
	}
	if base, ok := socialBaseURLs[platform]; ok {
		return base + handle
	}
	return "https://" + handle
}

func renderSocial(block *sitemodel.BlockData) string {
	v := block.Social()
	if v.Platform == "" || v.Handle == "" {
		return ""
	}
	href := SocialProfileURL(v.Platform, v.Handle)
	kind := "social"
	if v.IconOnly {
		kind = "social-icon"
	}
	label := v.Title
	if label == "" {
		label = "@" + strings.TrimPrefix(v.Handle, "@")
	}
	var b strings.Builder
	b.WriteString(blockOpen(block, kind))
	fmt.Fprintf(&b, `<a href="%s" target="_blank" rel="noopener noreferrer" data-platform="%s">`,
		EscapeHTML(href), EscapeHTML(v.Platform))
	fmt.Fprintf(&b, `<span class="social-icon icon-%s"></span>`, EscapeHTML(v.Platform))
	if !v.IconOnly {
		fmt.Fprintf(&b, `<span class="block-title">%s</span>`, EscapeHTML(label))
	}
	b.WriteString(`</a></div>`)
	return b.String()
}

func renderMap(block *sitemodel.BlockData) string {
	v := block.Map()
	var b strings.Builder
	b.WriteString(blockOpen(block, "map"))
	switch {
	case v.EmbedURL != "":
		fmt.Fprintf(&b, `<iframe src="%s" loading="lazy" allowfullscreen referrerpolicy="no-referrer-when-downgrade"></iframe>`,
			EscapeHTML(v.EmbedURL))
	case v.Address != "":
		fmt.Fprintf(&b, `<iframe src="https://maps.google.com/maps?q=%s&z=%d&output=embed" loading="lazy"></iframe>`,
			url.QueryEscape(v.Address), mapZoom(v.Zoom))
	default:
		return ""
	}
	if v.ShowDirections && v.Address != "" {
		fmt.Fprintf(&b, `<a class="map-directions" href="https://www.google.com/maps/dir/?api=1&destination=%s" target="_blank" rel="noopener noreferrer">Get Directions</a>`,
			url.QueryEscape(v.Address))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func mapZoom(z int) int {
	if z < 1 || z > 20 {
		return 14
	}
	return z
}

func renderRating(block *sitemodel.BlockData) string {
	v := block.Rating()
	if v.Value <= 0 && v.EmbedCode == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(blockOpen(block, "rating"))
	if v.EmbedCode != "" {
		b.WriteString(SanitizeCustomHTML(v.EmbedCode))
	} else {
		title := v.Title
		if title == "" {
			title = "Rating"
		}
		fmt.Fprintf(&b, `<span class="block-title">%s</span><span class="rating-value">%.1f</span><span class="rating-stars" style="--rating: %.2f;"></span>`,
			EscapeHTML(title), v.Value, v.Value)
		if v.Count > 0 {
			fmt.Fprintf(&b, `<span class="rating-count">%d reviews</span>`, v.Count)
		}
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderQR(block *sitemodel.BlockData) string {
	v := block.QR()
	if v.Content == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(blockOpen(block, "qr"))
	fmt.Fprintf(&b, `<div class="qr-canvas" data-qr-content="%s"></div>`, EscapeHTML(v.Content))
	if v.Label != "" {
		fmt.Fprintf(&b, `<span class="qr-label">%s</span>`, EscapeHTML(v.Label))
	}
	if v.ShowDownload {
		b.WriteString(`<button class="qr-download" type="button">Download</button>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderYouTube(block *sitemodel.BlockData) string {
	v := block.YouTube()
	var b strings.Builder
	b.WriteString(blockOpen(block, "youtube"))
	switch {
	case v.Mode == "single" && v.VideoID != "":
		fmt.Fprintf(&b, `<iframe src="https://www.youtube-nocookie.com/embed/%s" loading="lazy" allowfullscreen></iframe>`,
			EscapeHTML(v.VideoID))
	case len(v.Videos) > 0:
		b.WriteString(`<div class="yt-grid">`)
		for _, video := range v.Videos {
			fmt.Fprintf(&b, `<a href="https://youtube.com/watch?v=%s" target="_blank" rel="noopener noreferrer"><img src="%s" alt="%s" loading="lazy" /></a>`,
				EscapeHTML(video.ID), EscapeHTML(video.Thumbnail), EscapeHTML(video.Title))
		}
		b.WriteString(`</div>`)
	default:
		return ""
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderChart(block *sitemodel.BlockData) string {
	v := block.Chart()
	if v.Config.DataSource != "custom" || v.Config.CustomData == nil {
		// Analytics-backed charts need the runtime; the static render
		// shows the placeholder the runtime fills in.
		return blockOpen(block, "chart") + `<canvas class="chart-canvas" data-chart-source="analytics"></canvas></div>`
	}
	var b strings.Builder
	b.WriteString(blockOpen(block, "chart"))
	if v.Config.Title != "" {
		fmt.Fprintf(&b, `<h3>%s</h3>`, EscapeHTML(v.Config.Title))
	}
	fmt.Fprintf(&b, `<canvas class="chart-canvas" data-chart-type="%s"`, EscapeHTML(v.Config.ChartType))
	fmt.Fprintf(&b, ` data-chart-labels="%s"`, EscapeHTML(strings.Join(v.Config.CustomData.Labels, "|")))
	values := make([]string, len(v.Config.CustomData.Values))
	for i, val := range v.Config.CustomData.Values {
		values[i] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", val), "0"), ".")
	}
	fmt.Fprintf(&b, ` data-chart-values="%s"></canvas></div>`, EscapeHTML(strings.Join(values, "|")))
	return b.String()
}

func renderCustom(block *sitemodel.BlockData) string {
	v := block.Custom()
	safe := SanitizeCustomHTML(v.HTML)
	if safe == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(blockOpen(block, "custom"))
	if strings.TrimSpace(v.CSS) != "" {
		fmt.Fprintf(&b, `<style>%s</style>`, scopeCSS(v.CSS))
	}
	b.WriteString(safe)
	b.WriteString(`</div>`)
	return b.String()
}

// scopeCSS keeps user CSS from escaping its style element.
func scopeCSS(css string) string {
	return strings.ReplaceAll(css, "</style", "")
}
