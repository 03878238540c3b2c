package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Fingerprint identifies a normalized document plus taxonomy version for
// caching. Two documents with identical normalized text under the same
// taxonomy version always produce the same fingerprint.
type Fingerprint string

// FingerprintText computes the fingerprint of a resume text. Normalization:
// Unicode NFKC (folds full-width and compatibility forms), lowercase, and
// whitespace runs collapsed to single spaces. The taxonomy version is part of
// the hashed input, so a version bump changes every key and strands old cache
// entries without an active sweep.
func FingerprintText(text, taxonomyVersion string) Fingerprint {
	normalized := NormalizeText(text)
	h := sha256.Sum256([]byte(taxonomyVersion + "\x00" + normalized))
	return Fingerprint(fmt.Sprintf("%x", h))
}

// NormalizeText applies the fingerprint normalization without hashing.
func NormalizeText(text string) string {
	folded := strings.ToLower(norm.NFKC.String(text))

	var b strings.Builder
	b.Grow(len(folded))
	space := false
	for _, r := range folded {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
