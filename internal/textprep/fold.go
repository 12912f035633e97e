// Package textprep maps free-form text onto the machine alphabet.
package textprep

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold upper-cases s and strips diacritics, so "Straße" becomes "STRASSE" and
// "Déjà" becomes "DEJA". Characters with no Latin base letter are kept as they
// are; deciding what to do with them is up to the caller.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		// The chain only removes runes; on error fall back to the input.
		stripped = s
	}
	return cases.Upper(language.Und).String(stripped)
}

// Filter returns the runes of s that keep accepts.
func Filter(s string, keep func(rune) bool) string {
	var b strings.Builder
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Segment is a run of text that is either enciphered or passed through.
type Segment struct {
	Text   string
	Cipher bool
}

// Segments splits s into maximal runs of accepted and rejected runes, in order.
func Segments(s string, keep func(rune) bool) []Segment {
	var segs []Segment
	var cur strings.Builder
	curCipher := false

	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, Segment{Text: cur.String(), Cipher: curCipher})
			cur.Reset()
		}
	}

	for _, r := range s {
		k := keep(r)
		if k != curCipher {
			flush()
			curCipher = k
		}
		cur.WriteRune(r)
	}
	flush()
	return segs
}

// Group inserts a space after every n runes, the traditional layout for
// cipher text. n <= 0 returns s unchanged.
func Group(s string, n int) string {
	if n <= 0 {
		return s
	}
	var b strings.Builder
	i := 0
	for _, r := range s {
		if i > 0 && i%n == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		i++
	}
	return b.String()
}
