package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Elements never allowed in CUSTOM_HTML blocks. The exported page must
// not execute user-supplied script outside the generated runtime.
var disallowedElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Object: true,
	atom.Embed:  true,
	atom.Base:   true,
	atom.Link:   true,
	atom.Meta:   true,
}

// SanitizeCustomHTML parses a CUSTOM_HTML fragment and strips script
// elements, inline event handlers and javascript: URLs. Parse failures
// degrade to an empty fragment; a bad block must not break the export.
func SanitizeCustomHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return ""
	}

	var b strings.Builder
	for _, n := range nodes {
		scrub(n)
		if n.Type == html.ElementNode && disallowedElements[n.DataAtom] {
			continue
		}
		if err := html.Render(&b, n); err != nil {
			return ""
		}
	}
	return b.String()
}

func scrub(n *html.Node) {
	if n.Type == html.ElementNode {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if strings.HasPrefix(strings.ToLower(a.Key), "on") {
				continue
			}
			if (a.Key == "href" || a.Key == "src" || a.Key == "action") &&
				strings.HasPrefix(strings.TrimSpace(strings.ToLower(a.Val)), "javascript:") {
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && disallowedElements[c.DataAtom] {
			n.RemoveChild(c)
		} else {
			scrub(c)
		}
		c = next
	}
}
