// Package textnorm replaces look-alike punctuation in cell text with ASCII.
package textnorm

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/ukaji3/baip-parser-go/pkg/baip/models"
)

// Hyphen look-alikes rewritten to '-'.
const (
	NonBreakingHyphen = '\u2011'
	PlusMinus         = '\u00b1'
	RightSingleQuote  = '\u2019'
)

func hyphenate(r rune) rune {
	switch r {
	case NonBreakingHyphen, PlusMinus, RightSingleQuote:
		return '-'
	}
	return r
}

// Normalize returns s with the hyphen look-alikes replaced by '-'. All other
// content passes through unchanged, including invalid UTF-8 bytes.
func Normalize(s string) string {
	if !utf8.ValidString(s) {
		return normalizeBytes(s)
	}
	out, _, err := transform.String(runes.Map(hyphenate), s)
	if err != nil {
		return s
	}
	return out
}

// normalizeBytes maps valid runes and copies invalid bytes as is.
func normalizeBytes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(s[i])
		} else {
			b.WriteRune(hyphenate(r))
		}
		i += size
	}
	return b.String()
}

// NormalizeValue applies Normalize to text values only.
func NormalizeValue(v models.Value) models.Value {
	if v.Kind != models.KindText {
		return v
	}
	v.Text = Normalize(v.Text)
	return v
}
