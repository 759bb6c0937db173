package render

import (
	"encoding/json"
	"fmt"
)

// packageManifest mirrors the package.json shape of the generated Vite
// project. Field order is fixed by the struct so repeated exports are
// byte-identical.
type packageManifest struct {
	Name            string            `json:"name"`
	Private         bool              `json:"private"`
	Version         string            `json:"version"`
	Type            string            `json:"type"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// RenderPackageJSON generates the package manifest from a sanitized
// project name.
func RenderPackageJSON(projectName string) (string, error) {
	manifest := packageManifest{
		Name:    SanitizeProjectName(projectName),
		Private: true,
		Version: "1.0.0",
		Type:    "module",
		Scripts: map[string]string{
			"dev":     "vite",
			"build":   "vite build",
			"preview": "vite preview",
		},
		Dependencies: map[string]string{
			"react":              "^18.3.1",
			"react-dom":          "^18.3.1",
			"react-helmet-async": "^2.0.5",
		},
		DevDependencies: map[string]string{
			"@types/react":         "^18.3.12",
			"@types/react-dom":     "^18.3.1",
			"@vitejs/plugin-react": "^4.3.3",
			"autoprefixer":         "^10.4.20",
			"postcss":              "^8.4.49",
			"tailwindcss":          "^3.4.15",
			"typescript":           "^5.6.3",
			"vite":                 "^5.4.11",
		},
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal package manifest: %w", err)
	}
	return string(data) + "\n", nil
}
