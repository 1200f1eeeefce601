// Package linkx turns the free-text links field of a record into displayable
// link chips. Only absolute http(s) lines are recognized; everything else in
// the field is ignored rather than rendered.
package linkx

import (
	"regexp"
	"strings"
)

// Link is one recognized URL plus its display label.
type Link struct {
	URL   string
	Label string
}

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// Provider patterns, tested in priority order. The first match wins; the
// generic label is the fallback.
var providerLabels = []struct {
	pattern *regexp.Regexp
	label   string
}{
	{regexp.MustCompile(`(?i)google\.com/maps|maps\.app\.goo\.gl|goo\.gl/maps`), "🗺️ Googleマップ"},
	{regexp.MustCompile(`(?i)instagram\.com`), "📸 Instagram"},
	{regexp.MustCompile(`(?i)tabelog\.com`), "🍴 食べログ"},
	{regexp.MustCompile(`(?i)twitter\.com|x\.com`), "𝕏 Twitter"},
	{regexp.MustCompile(`(?i)facebook\.com`), "👤 Facebook"},
}

const genericLabel = "🔗 リンク"

// Parse splits the newline-delimited links field, keeps the absolute http(s)
// lines and classifies each into a labeled Link.
func Parse(links string) []Link {
	if links == "" {
		return nil
	}

	var out []Link
	for _, line := range strings.Split(links, "\n") {
		line = strings.TrimSpace(line)
		if !absoluteURL.MatchString(line) {
			continue
		}
		out = append(out, Link{URL: line, Label: Classify(line)})
	}
	return out
}

// Classify returns the display label for a single URL.
func Classify(url string) string {
	for _, p := range providerLabels {
		if p.pattern.MatchString(url) {
			return p.label
		}
	}
	return genericLabel
}
