package row

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent decomposes to NFKD and strips combining marks, so "Café" and
// "Cafe" slug identically.
var deaccent = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

var (
	disallowed = regexp.MustCompile(`[^a-z0-9_\s-]`)
	separators = regexp.MustCompile(`[\s_-]+`)
)

// EventID derives the stable identifier for an event from its name and
// final date. The derivation must stay bit-exact across tools: breakdown
// documents and UI links cross-reference events by this id.
func EventID(name, date string) string {
	return slugify(name) + "-" + date
}

func slugify(value string) string {
	s := strings.ToLower(value)
	if out, _, err := transform.String(deaccent, s); err == nil {
		s = out
	}
	s = disallowed.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
