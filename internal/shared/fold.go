package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normalizes a natural key for comparison: trims, lowercases and
// strips diacritics, so "Verde Água" and "verde agua" collide. It is
// the Go mirror of the chave_natural() SQL function backing the
// natural-key unique indexes; the two must agree or duplicate checks
// drift from what the database enforces.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}
