package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify lowercases s, folds accents, and collapses every run of
// non-alphanumeric characters to a single hyphen. Leading and trailing
// hyphens are trimmed.
func Slugify(s string) string {
	folded, _, err := transform.String(accentFolder(), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pending := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// accentFolder decomposes runes and drops combining marks, so "é" becomes "e".
// Transformers carry state and are not safe for concurrent use, so a fresh
// chain is built per call.
func accentFolder() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
