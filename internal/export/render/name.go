package render

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultProjectName is used when sanitization leaves nothing usable.
const DefaultProjectName = "my-bento"

// foldDiacritics decomposes accented characters and drops the combining
// marks, so "café" sanitizes to "cafe" instead of "caf-".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SanitizeProjectName turns a display name into a package-manifest-safe
// name: lowercase letters, digits and hyphens only, no leading/trailing
// or doubled hyphens. Empty results fall back to DefaultProjectName.
func SanitizeProjectName(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return DefaultProjectName
	}
	return out
}
