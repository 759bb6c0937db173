// Package assets carries the static boilerplate files bundled into
// every exported project: service worker, styling and framework config.
// These are data-independent; the web app manifest is the one
// name-bearing file and is generated, not embedded.
package assets

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed static
var staticFS embed.FS

// File names within the embedded set.
const (
	ServiceWorker  = "sw.js"
	Stylesheet     = "styles.css"
	ViteConfig     = "vite.config.ts"
	TailwindConfig = "tailwind.config.js"
	PostCSSConfig  = "postcss.config.js"
	TSConfig       = "tsconfig.json"
	IndexCSS       = "index.css"
)

// Read returns one embedded boilerplate file.
func Read(name string) ([]byte, error) {
	data, err := staticFS.ReadFile("static/" + name)
	if err != nil {
		return nil, fmt.Errorf("read embedded asset %s: %w", name, err)
	}
	return data, nil
}

// webManifest is the PWA manifest shape.
type webManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	StartURL        string         `json:"start_url"`
	Display         string         `json:"display"`
	BackgroundColor string         `json:"background_color"`
	ThemeColor      string         `json:"theme_color"`
	Icons           []manifestIcon `json:"icons"`
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// WebManifest generates manifest.json for the exported site.
func WebManifest(name, themeColor string) ([]byte, error) {
	if name == "" {
		name = "My Bento"
	}
	if themeColor == "" {
		themeColor = "#6366f1"
	}
	short := name
	if runes := []rune(short); len(runes) > 12 {
		short = string(runes[:12])
	}
	m := webManifest{
		Name:            name,
		ShortName:       short,
		StartURL:        "/",
		Display:         "standalone",
		BackgroundColor: "#ffffff",
		ThemeColor:      themeColor,
		Icons: []manifestIcon{
			{Src: "/icon-192x192.png", Sizes: "192x192", Type: "image/png"},
			{Src: "/icon-512x512.png", Sizes: "512x512", Type: "image/png"},
		},
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal web manifest: %w", err)
	}
	return append(data, '\n'), nil
}
