package commune

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"parcel-index/internal/geojson"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var spaceRuns = regexp.MustCompile(`\s+`)

// Canonicalizer maps raw commune name spellings to official names.
type Canonicalizer struct {
	variants map[string]string
}

// NewCanonicalizer creates a canonicalizer with the given spelling-variant
// map (misspelling -> official name, both uppercase).
func NewCanonicalizer(variants map[string]string) *Canonicalizer {
	m := make(map[string]string, len(variants))
	for k, v := range variants {
		m[k] = v
	}
	return &Canonicalizer{variants: m}
}

// Canonicalize normalizes a raw commune value of unknown type.
// Returns "" when the value is absent or blank. The result is trimmed,
// accent-stripped and uppercased; known misspellings map to their official
// name. Names outside the registry are returned normalized as-is: they stay
// on individual parcel records but never feed commune aggregates.
func (c *Canonicalizer) Canonicalize(raw any) string {
	if raw == nil {
		return ""
	}

	s := strings.TrimSpace(geojson.Stringify(raw))
	if s == "" {
		return ""
	}

	s = spaceRuns.ReplaceAllString(s, " ")
	s, _, _ = transform.String(stripAccents, s)
	s = strings.ToUpper(s)

	if canonical, ok := c.variants[s]; ok {
		return canonical
	}
	return s
}
