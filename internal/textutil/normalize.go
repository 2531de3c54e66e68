package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	punctPattern = regexp.MustCompile(`[^a-z0-9\s]`)
	spacePattern = regexp.MustCompile(`\s+`)

	// NFD-decompose and drop combining marks.
	accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize canonicalizes text for deterministic fuzzy comparison:
// lowercase, punctuation and symbols replaced by a space, whitespace runs
// collapsed to a single space, ends trimmed. Accented letters fall to the
// punctuation strip; apply FoldAccents first to keep them. Total and
// idempotent.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctPattern.ReplaceAllString(s, " ")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FoldAccents rewrites accented letters to their base form, so "café"
// becomes "cafe" instead of losing the marked letter during Normalize.
func FoldAccents(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return folded
}
