package render

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/bentoforge/internal/export/media"
	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

// RenderPageBody renders the full page markup for the static-html
// target: profile header, desktop grid, mobile stack and footer.
func RenderPageBody(site *sitemodel.SiteData, m media.Map, opts Options) string {
	var b strings.Builder

	b.WriteString(`    <div class="page"`)
	b.WriteString(backgroundStyle(&site.Profile, m))
	b.WriteString(">\n")

	if site.Profile.BackgroundImage != "" && site.Profile.BackgroundBlur > 0 {
		fmt.Fprintf(&b, `      <div class="bg-blur" style="backdrop-filter: blur(%dpx);"></div>`+"\n",
			site.Profile.BackgroundBlur)
	}

	b.WriteString(renderHeader(&site.Profile, m))

	// Desktop: explicit 9-column grid placement.
	b.WriteString(`      <main class="grid grid-desktop">` + "\n")
	for i := range site.Blocks {
		if html := RenderBlockHTML(&site.Blocks[i], m); html != "" {
			b.WriteString("        " + html + "\n")
		}
	}
	b.WriteString("      </main>\n")

	// Mobile: single column in compact order.
	b.WriteString(`      <main class="grid grid-mobile">` + "\n")
	ordered := sitemodel.CompactOrder(site.Blocks)
	for i := range ordered {
		if html := RenderBlockHTML(&ordered[i], m); html != "" {
			b.WriteString("        " + html + "\n")
		}
	}
	b.WriteString("      </main>\n")

	if site.Profile.BrandingVisible() && !opts.RemoveBranding {
		b.WriteString(`      <footer class="branding"><a href="https://bentoforge.dev" target="_blank" rel="noopener noreferrer">Made with BentoForge</a></footer>` + "\n")
	}

	b.WriteString("    </div>")
	return b.String()
}

func backgroundStyle(profile *sitemodel.UserProfile, m media.Map) string {
	if profile.BackgroundImage != "" {
		img := resolve(m, media.KeyBackground, profile.BackgroundImage)
		return fmt.Sprintf(` style="background-image: url('%s'); background-size: cover; background-position: center; background-attachment: fixed;"`,
			EscapeHTML(img))
	}
	color := profile.BackgroundColor
	if color == "" {
		color = "#f8fafc"
	}
	return fmt.Sprintf(` style="background-color: %s;"`, EscapeHTML(color))
}

func renderHeader(profile *sitemodel.UserProfile, m media.Map) string {
	var b strings.Builder
	b.WriteString(`      <header class="profile">` + "\n")

	if avatar := resolve(m, media.KeyAvatar, profile.AvatarURL); avatar != "" {
		style := profile.EffectiveAvatarStyle()
		radius := map[string]string{"circle": "9999px", "square": "0"}[style.Shape]
		if radius == "" {
			radius = "1.5rem"
		}
		css := "border-radius: " + radius + ";"
		if style.Shadow {
			css += " box-shadow: 0 25px 50px -12px rgba(0,0,0,0.15);"
		}
		if style.Border {
			css += fmt.Sprintf(" border: %dpx solid %s;", style.BorderWidth, style.BorderColor)
		}
		fmt.Fprintf(&b, `        <img class="avatar" src="%s" alt="%s" style="%s" />`+"\n",
			EscapeHTML(avatar), EscapeHTML(profile.Name), EscapeHTML(css))
	}

	fmt.Fprintf(&b, `        <h1>%s</h1>`+"\n", EscapeHTML(profile.Name))
	if profile.Bio != "" {
		fmt.Fprintf(&b, `        <p class="bio">%s</p>`+"\n", EscapeHTML(profile.Bio))
	}

	if profile.ShowSocialInHeader && len(profile.SocialAccounts) > 0 {
		b.WriteString(`        <div class="social-row">` + "\n")
		for _, acct := range profile.SocialAccounts {
			fmt.Fprintf(&b, `          <a href="%s" target="_blank" rel="noopener noreferrer" aria-label="%s"><span class="social-icon icon-%s"></span>`,
				EscapeHTML(SocialProfileURL(acct.Platform, acct.Handle)),
				EscapeHTML(acct.Platform),
				EscapeHTML(acct.Platform))
			if profile.ShowFollowerCount && acct.FollowerCount > 0 {
				fmt.Fprintf(&b, `<span class="follower-count">%s</span>`, formatFollowers(acct.FollowerCount))
			}
			b.WriteString("</a>\n")
		}
		b.WriteString("        </div>\n")
	}

	b.WriteString("      </header>\n")
	return b.String()
}

func formatFollowers(n int) string {
	switch {
	case n >= 1_000_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "M"
	case n >= 1_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000)) + "K"
	default:
		return fmt.Sprintf("%d", n)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
