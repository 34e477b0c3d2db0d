// Package tags implements the tag canonicalization resolver: free-text
// skill/interest tags are mapped onto a fixed vocabulary through a hard
// synonym table, a persistent synonym cache, and embedding
// nearest-neighbor search.
package tags

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeKey canonicalizes a raw tag string into the cache key space:
// NFKC-normalize, trim, lowercase, then strip whitespace, hyphens,
// underscores and slashes. The hard map and the synonym cache both
// address keys produced here, so the two paths stay consistent.
func NormalizeKey(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' || r == '_' || r == '/' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
