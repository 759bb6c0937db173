// Package templates ships the starter site gallery: ready-made grid
// layouts users instantiate as new projects. Instantiation mints fresh
// block IDs so two projects from the same template never collide.
package templates

import (
	"sort"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/bentoforge/internal/sitemodel"
)

// Category groups templates in the gallery.
type Category struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Categories lists the gallery sections in display order.
var Categories = []Category{
	{ID: "retail", Label: "Retail", Description: "Shops & stores"},
	{ID: "food", Label: "Food & Drink", Description: "Restaurants & cafes"},
	{ID: "services", Label: "Services", Description: "Professional services"},
	{ID: "creative", Label: "Creative", Description: "Artists & designers"},
	{ID: "personal", Label: "Personal", Description: "Personal brands"},
	{ID: "business", Label: "Business", Description: "Corporate & B2B"},
}

// Template is one gallery entry.
type Template struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Site        sitemodel.SiteData `json:"site"`
}

// Instantiate returns a copy of the template's site with fresh block
// IDs, ready to save as a new project.
func (t *Template) Instantiate() sitemodel.SiteData {
	site := t.Site
	site.GridVersion = sitemodel.GridVersion
	site.Blocks = make([]sitemodel.BlockData, len(t.Site.Blocks))
	for i, b := range t.Site.Blocks {
		b.ID = uuid.NewString()
		site.Blocks[i] = b
	}
	return site
}

// All returns every template, ordered by category then name.
func All() []*Template {
	out := make([]*Template, len(gallery))
	copy(out, gallery)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return categoryRank(out[i].Category) < categoryRank(out[j].Category)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ByCategory returns the templates in one gallery section.
func ByCategory(categoryID string) []*Template {
	var out []*Template
	for _, t := range gallery {
		if t.Category == categoryID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns a template by ID, or nil.
func Get(id string) *Template {
	for _, t := range gallery {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func categoryRank(id string) int {
	for i, c := range Categories {
		if c.ID == id {
			return i
		}
	}
	return len(Categories)
}

func profile(name, bio, theme, primaryColor string) sitemodel.UserProfile {
	return sitemodel.UserProfile{
		Name:         name,
		Bio:          bio,
		Theme:        theme,
		PrimaryColor: primaryColor,
	}
}

func link(id, title, url string, colSpan, rowSpan, col, row int, color string) sitemodel.BlockData {
	return sitemodel.BlockData{
		ID: id, Type: sitemodel.BlockLink, Title: title, Content: url,
		ColSpan: colSpan, RowSpan: rowSpan, GridColumn: col, GridRow: row,
		Color: color, TextColor: "text-white",
	}
}

func social(id, title, platform, handle string, colSpan, rowSpan, col, row int, color string) sitemodel.BlockData {
	return sitemodel.BlockData{
		ID: id, Type: sitemodel.BlockSocial, Title: title,
		SocialPlatform: platform, SocialHandle: handle,
		ColSpan: colSpan, RowSpan: rowSpan, GridColumn: col, GridRow: row,
		Color: color,
	}
}

func mapAt(id, title, address string, colSpan, rowSpan, col, row int) sitemodel.BlockData {
	return sitemodel.BlockData{
		ID: id, Type: sitemodel.BlockMap, Title: title, MapAddress: address,
		MapShowDirections: true,
		ColSpan:           colSpan, RowSpan: rowSpan, GridColumn: col, GridRow: row,
	}
}

func text(id, title, content string, colSpan, rowSpan, col, row int) sitemodel.BlockData {
	return sitemodel.BlockData{
		ID: id, Type: sitemodel.BlockText, Title: title, Content: content,
		ColSpan: colSpan, RowSpan: rowSpan, GridColumn: col, GridRow: row,
		Color: "bg-gray-50",
	}
}

func qr(id, title, content string, colSpan, rowSpan, col, row int) sitemodel.BlockData {
	return sitemodel.BlockData{
		ID: id, Type: sitemodel.BlockQRCode, Title: title, QRContent: content,
		QRShowDownload: true,
		ColSpan:        colSpan, RowSpan: rowSpan, GridColumn: col, GridRow: row,
	}
}

var gallery = []*Template{
	{
		ID: "retail-boutique", Name: "Fashion Boutique", Category: "retail",
		Description: "Elegant boutique",
		Site: sitemodel.SiteData{
			Profile: profile("Style Studio", "Curated fashion", "light", "#ec4899"),
			Blocks: []sitemodel.BlockData{
				link("t1", "Shop Now", "https://example.com", 6, 3, 1, 1, "bg-pink-500"),
				social("t2", "Instagram", "instagram", "stylestudio", 3, 3, 7, 1, "bg-pink-100"),
				mapAt("t3", "Visit Us", "New York, NY", 4, 3, 1, 4),
				qr("t4", "Scan to Visit", "https://example.com", 3, 3, 7, 4),
			},
		},
	},
	{
		ID: "food-cafe", Name: "Neighborhood Cafe", Category: "food",
		Description: "Coffee & pastries",
		Site: sitemodel.SiteData{
			Profile: profile("Daily Grind", "Fresh roasted daily", "light", "#b45309"),
			Blocks: []sitemodel.BlockData{
				link("t1", "View Menu", "https://example.com", 6, 3, 1, 1, "bg-amber-700"),
				mapAt("t2", "Find Us", "Portland, OR", 3, 3, 7, 1),
				social("t3", "Instagram", "instagram", "dailygrind", 4, 3, 1, 4, "bg-amber-100"),
				text("t4", "Hours", "Mon-Fri 7am-5pm\n\nSat-Sun 8am-3pm", 5, 3, 5, 4),
			},
		},
	},
	{
		ID: "services-consulting", Name: "Consulting Studio", Category: "services",
		Description: "Professional services",
		Site: sitemodel.SiteData{
			Profile: profile("Clearpath Advisory", "Strategy for growing teams", "light", "#2563eb"),
			Blocks: []sitemodel.BlockData{
				link("t1", "Book a Call", "https://example.com", 6, 3, 1, 1, "bg-blue-600"),
				social("t2", "LinkedIn", "linkedin", "clearpath", 3, 3, 7, 1, "bg-blue-100"),
				text("t3", "What We Do", "Product strategy, team coaching and delivery audits.", 9, 2, 1, 4),
			},
		},
	},
	{
		ID: "creative-portfolio", Name: "Design Portfolio", Category: "creative",
		Description: "Artists & designers",
		Site: sitemodel.SiteData{
			Profile: profile("Mara Makes", "Illustration and brand design", "dark", "#8b5cf6"),
			Blocks: []sitemodel.BlockData{
				link("t1", "Portfolio", "https://example.com", 5, 3, 1, 1, "bg-violet-600"),
				social("t2", "Dribbble", "dribbble", "maramakes", 4, 3, 6, 1, "bg-violet-100"),
				social("t3", "Instagram", "instagram", "maramakes", 4, 3, 1, 4, "bg-pink-100"),
				link("t4", "Commissions", "https://example.com", 5, 3, 5, 4, "bg-violet-500"),
			},
		},
	},
	{
		ID: "personal-links", Name: "Personal Links", Category: "personal",
		Description: "Personal brands",
		Site: sitemodel.SiteData{
			Profile: profile("Jordan Lee", "Writer, runner, occasional baker", "light", "#10b981"),
			Blocks: []sitemodel.BlockData{
				link("t1", "My Blog", "https://example.com", 9, 2, 1, 1, "bg-emerald-600"),
				social("t2", "X", "x", "jordanlee", 3, 3, 1, 3, "bg-gray-100"),
				social("t3", "GitHub", "github", "jordanlee", 3, 3, 4, 3, "bg-gray-100"),
				social("t4", "YouTube", "youtube", "jordanlee", 3, 3, 7, 3, "bg-red-100"),
			},
		},
	},
	{
		ID: "business-startup", Name: "Startup Landing", Category: "business",
		Description: "Corporate & B2B",
		Site: sitemodel.SiteData{
			Profile: profile("Northbeam", "Analytics for small fleets", "dark", "#0ea5e9"),
			Blocks: []sitemodel.BlockData{
				link("t1", "Get a Demo", "https://example.com", 6, 3, 1, 1, "bg-sky-600"),
				link("t2", "Pricing", "https://example.com", 3, 3, 7, 1, "bg-sky-500"),
				text("t3", "About", "Realtime telemetry, routing and cost reports.", 6, 2, 1, 4),
				social("t4", "LinkedIn", "linkedin", "northbeam", 3, 2, 7, 4, "bg-blue-100"),
			},
		},
	},
}
