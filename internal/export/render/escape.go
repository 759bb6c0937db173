package render

import "strings"

// htmlEscaper covers the five standard HTML special characters. All
// user-authored text interpolated into generated markup or attributes
// must pass through EscapeHTML; the output is later served as a live
// document, so this is a security contract rather than cosmetics.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes s for safe interpolation into HTML text or
// attribute positions.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
