package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bentoforge/internal/export/media"
	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

func TestSanitizeProjectName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Cool Site!! 🎉", "my-cool-site"},
		{"Café Corner", "cafe-corner"},
		{"already-fine", "already-fine"},
		{"  --Weird__Name--  ", "weird-name"},
		{"🎉🎉🎉", DefaultProjectName},
		{"", DefaultProjectName},
		{"UPPER case 123", "upper-case-123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeProjectName(tt.in), "input %q", tt.in)
	}
}

func TestEscapeHTML(t *testing.T) {
	got := EscapeHTML(`<script>alert("x") & 'y'</script>`)
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "&lt;script&gt;")
	assert.Contains(t, got, "&amp;")
	assert.Contains(t, got, "&#39;y&#39;")
}

func TestSanitizeCustomHTML(t *testing.T) {
	t.Run("strips script elements", func(t *testing.T) {
		got := SanitizeCustomHTML(`<p>hi</p><script>alert(1)</script>`)
		assert.Contains(t, got, "<p>hi</p>")
		assert.NotContains(t, got, "script")
	})

	t.Run("strips event handlers", func(t *testing.T) {
		got := SanitizeCustomHTML(`<div onclick="steal()">click</div>`)
		assert.Contains(t, got, "click")
		assert.NotContains(t, got, "onclick")
	})

	t.Run("strips javascript urls", func(t *testing.T) {
		got := SanitizeCustomHTML(`<a href="javascript:alert(1)">x</a><a href="https://ok.example">y</a>`)
		assert.NotContains(t, got, "javascript:")
		assert.Contains(t, got, "https://ok.example")
	})

	t.Run("strips nested disallowed elements", func(t *testing.T) {
		got := SanitizeCustomHTML(`<div><embed src="x"><span>keep</span></div>`)
		assert.NotContains(t, got, "embed")
		assert.Contains(t, got, "keep")
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", SanitizeCustomHTML("   "))
	})
}

func TestRenderIndexHTMLEscapesProfile(t *testing.T) {
	site := &sitemodel.SiteData{
		Profile: sitemodel.UserProfile{
			Name: "Eve",
			Bio:  `<script>alert(1)</script>`,
		},
	}
	out, err := RenderIndexHTML(site, media.Map{}, DefaultOptions())
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRenderIndexHTMLEscapesAttributeFields(t *testing.T) {
	site := &sitemodel.SiteData{Profile: sitemodel.UserProfile{
		Name:         "Eve",
		PrimaryColor: `#123"><script>alert(2)</script>`,
		OpenGraph: &sitemodel.OpenGraphData{
			Image:         `x"><script>alert(1)</script>`,
			TwitterHandle: `eve"><script>alert(3)</script>`,
		},
	}}

	out, err := RenderIndexHTML(site, media.Map{}, DefaultOptions())
	require.NoError(t, err)
	// A quote in a URL or handle must not break out of the attribute.
	assert.NotContains(t, out, "<script>alert")
	assert.Contains(t, out, `og:image" content="x&quot;&gt;&lt;script&gt;alert(1)&lt;/script&gt;"`)

	app, err := RenderAppSource(site, media.Map{}, DefaultOptions())
	require.NoError(t, err)
	assert.NotContains(t, app, "<script>alert")
	// Escaped once, not twice.
	assert.NotContains(t, app, "&amp;quot;")
}

func TestRenderIndexHTMLSEOFallbacks(t *testing.T) {
	t.Run("defaults from profile", func(t *testing.T) {
		site := &sitemodel.SiteData{Profile: sitemodel.UserProfile{
			Name:      "Ada",
			AvatarURL: "https://cdn.example/ada.png",
		}}
		out, err := RenderIndexHTML(site, media.Map{}, DefaultOptions())
		require.NoError(t, err)
		assert.Contains(t, out, `content="Ada&#39;s link-in-bio page"`)
		assert.Contains(t, out, `og:image" content="https://cdn.example/ada.png"`)
		assert.Contains(t, out, `theme-color" content="#6366f1"`)
		assert.Contains(t, out, `twitter:card" content="summary_large_image"`)
	})

	t.Run("og overrides and media map win", func(t *testing.T) {
		site := &sitemodel.SiteData{Profile: sitemodel.UserProfile{
			Name:         "Ada",
			Bio:          "bio",
			PrimaryColor: "#112233",
			OpenGraph: &sitemodel.OpenGraphData{
				Title:         "Custom Title",
				Image:         "https://cdn.example/og.png",
				TwitterHandle: "ada",
			},
		}}
		m := media.Map{media.KeyOGImage: "/assets/og-image.png"}
		out, err := RenderIndexHTML(site, m, DefaultOptions())
		require.NoError(t, err)
		assert.Contains(t, out, `og:title" content="Custom Title"`)
		assert.Contains(t, out, `og:image" content="/assets/og-image.png"`)
		assert.Contains(t, out, `twitter:site" content="@ada"`)
		assert.Contains(t, out, `theme-color" content="#112233"`)
	})
}

func TestRenderIndexHTMLServiceWorkerToggle(t *testing.T) {
	site := &sitemodel.SiteData{Profile: sitemodel.UserProfile{Name: "Ada"}}

	with, err := RenderIndexHTML(site, media.Map{}, Options{IncludeServiceWorker: true})
	require.NoError(t, err)
	assert.Contains(t, with, "serviceWorker")

	without, err := RenderIndexHTML(site, media.Map{}, Options{})
	require.NoError(t, err)
	assert.NotContains(t, without, "serviceWorker")
}

func TestRenderBlockHTML(t *testing.T) {
	t.Run("unknown type renders nothing", func(t *testing.T) {
		b := &sitemodel.BlockData{ID: "x", Type: sitemodel.BlockType("NOPE")}
		assert.Equal(t, "", RenderBlockHTML(b, media.Map{}))
	})

	t.Run("link block escapes title", func(t *testing.T) {
		b := &sitemodel.BlockData{
			ID: "l1", Type: sitemodel.BlockLink,
			Title: `<b>bold</b>`, Content: "https://example.com",
		}
		out := RenderBlockHTML(b, media.Map{})
		assert.Contains(t, out, "https://example.com")
		assert.NotContains(t, out, "<b>bold</b>")
	})

	t.Run("text block renders markdown", func(t *testing.T) {
		b := &sitemodel.BlockData{ID: "t1", Type: sitemodel.BlockText, Content: "> stay hungry"}
		out := RenderBlockHTML(b, media.Map{})
		assert.Contains(t, out, "<blockquote>")
		assert.Contains(t, out, "stay hungry")
	})

	t.Run("text block drops raw html", func(t *testing.T) {
		b := &sitemodel.BlockData{ID: "t2", Type: sitemodel.BlockText, Content: "<script>alert(1)</script>"}
		out := RenderBlockHTML(b, media.Map{})
		assert.NotContains(t, out, "<script>")
	})

	t.Run("media block substitutes extracted asset", func(t *testing.T) {
		b := &sitemodel.BlockData{ID: "m1", Type: sitemodel.BlockMedia, ImageURL: "data:image/png;base64,xxxx"}
		m := media.Map{media.BlockKey("m1"): "/assets/block-m1.png"}
		out := RenderBlockHTML(b, m)
		assert.Contains(t, out, "/assets/block-m1.png")
		assert.NotContains(t, out, "data:image/png")
	})

	t.Run("spacer renders an empty tile", func(t *testing.T) {
		b := &sitemodel.BlockData{ID: "s1", Type: sitemodel.BlockSpacer, ColSpan: 2, RowSpan: 1}
		out := RenderBlockHTML(b, media.Map{})
		assert.Contains(t, out, "spacer")
	})
}

func TestSocialProfileURL(t *testing.T) {
	assert.Equal(t, "https://instagram.com/ada", SocialProfileURL("instagram", "ada"))
	assert.Equal(t, "https://instagram.com/ada", SocialProfileURL("instagram", "@ada"))
	assert.Equal(t, "https://example.com/me", SocialProfileURL("website", "https://example.com/me"))
}

func TestRenderPageBodyBranding(t *testing.T) {
	site := &sitemodel.SiteData{Profile: sitemodel.UserProfile{Name: "Ada"}}

	out := RenderPageBody(site, media.Map{}, Options{})
	assert.Contains(t, out, "Made with")

	out = RenderPageBody(site, media.Map{}, Options{RemoveBranding: true})
	assert.NotContains(t, out, "Made with")

	hidden := false
	site.Profile.ShowBranding = &hidden
	out = RenderPageBody(site, media.Map{}, Options{})
	assert.NotContains(t, out, "Made with")
}

func TestRenderPageBodyMobileOrder(t *testing.T) {
	site := &sitemodel.SiteData{
		Profile: sitemodel.UserProfile{Name: "Ada"},
		Blocks: []sitemodel.BlockData{
			{ID: "second", Type: sitemodel.BlockLink, Content: "https://b.example", GridRow: 2, GridColumn: 1, ColSpan: 3, RowSpan: 1},
			{ID: "first", Type: sitemodel.BlockLink, Content: "https://a.example", GridRow: 1, GridColumn: 1, ColSpan: 3, RowSpan: 1},
		},
	}
	out := RenderPageBody(site, media.Map{}, Options{})

	mobile := out[strings.Index(out, "grid-mobile"):]
	assert.Less(t, strings.Index(mobile, "https://a.example"), strings.Index(mobile, "https://b.example"),
		"mobile layout must follow compact reading order")
}

func TestFormatFollowers(t *testing.T) {
	assert.Equal(t, "999", formatFollowers(999))
	assert.Equal(t, "1.5K", formatFollowers(1500))
	assert.Equal(t, "2M", formatFollowers(2_000_000))
}

func TestRenderPackageJSON(t *testing.T) {
	out, err := RenderPackageJSON("My Cool Site!! 🎉")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "my-cool-site"`)
	assert.Contains(t, out, `"react"`)
	assert.Contains(t, out, `"vite"`)
}

func TestRenderAppSourceEmbedsData(t *testing.T) {
	site := &sitemodel.SiteData{
		Profile: sitemodel.UserProfile{Name: "Ada", AvatarURL: "data:image/png;base64,AAAA"},
		Blocks: []sitemodel.BlockData{
			{ID: "b1", Type: sitemodel.BlockLink, Content: "https://example.com", ColSpan: 3, RowSpan: 1},
		},
	}
	m := media.Map{media.KeyAvatar: "/assets/avatar.png"}

	out, err := RenderAppSource(site, m, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "/assets/avatar.png")
	assert.NotContains(t, out, "base64,AAAA")
	assert.Contains(t, out, "https://example.com")
}
