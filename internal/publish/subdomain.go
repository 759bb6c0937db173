// Package publish manages the subdomain registry: validating requested
// subdomains, checking availability and recording publications.
package publish

import (
	"math/rand"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/bentoforge/internal/bentoerr"
)

// Subdomains are DNS labels: lowercase alphanumerics and interior
// hyphens, 2 to 63 characters.
var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// reservedSubdomains cannot be claimed by any user.
var reservedSubdomains = map[string]bool{
	"www": true, "api": true, "admin": true, "app": true,
	"dashboard": true, "static": true, "cdn": true, "mail": true,
	"ftp": true, "smtp": true, "pop": true, "imap": true,
	"ns1": true, "ns2": true, "ns3": true, "ns4": true,
	"test": true, "dev": true, "staging": true, "prod": true,
	"production": true, "localhost": true, "demo": true, "blog": true,
	"shop": true, "store": true, "support": true, "help": true,
	"docs": true, "documentation": true,
}

// Normalize lowercases and trims a requested subdomain.
func Normalize(subdomain string) string {
	return strings.ToLower(strings.TrimSpace(subdomain))
}

// ValidateSubdomain checks a requested subdomain against the DNS label
// rules and the reserved list. The returned error is a validation error
// carrying the reason.
func ValidateSubdomain(subdomain string) error {
	s := Normalize(subdomain)
	switch {
	case s == "":
		return bentoerr.SubdomainInvalid(subdomain, "subdomain is required")
	case len(s) < 2:
		return bentoerr.SubdomainInvalid(s, "must be at least 2 characters")
	case len(s) > 63:
		return bentoerr.SubdomainInvalid(s, "must be at most 63 characters")
	case !subdomainPattern.MatchString(s):
		return bentoerr.SubdomainInvalid(s, "only lowercase letters, digits and interior hyphens are allowed")
	case reservedSubdomains[s]:
		return bentoerr.SubdomainInvalid(s, "this subdomain is reserved")
	}
	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display name into subdomain-shaped text. The result
// may still be too short or reserved; Suggest handles those cases.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if len(s) > 30 {
		s = strings.Trim(s[:30], "-")
	}
	return s
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}

// Suggest proposes a valid subdomain for a project name, appending a
// random suffix when the slug alone is unusable.
func Suggest(name string) string {
	s := Slugify(name)
	if len(s) < 2 || reservedSubdomains[s] {
		if s == "" {
			return "my-site-" + randomSuffix(4)
		}
		return s + "-" + randomSuffix(4)
	}
	return s
}
