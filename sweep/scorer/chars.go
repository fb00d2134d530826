package scorer

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Chars is an ASCII-fast-pathed view over a haystack string: plain ASCII
// strings are indexed byte-by-byte with no allocation, anything else is
// decoded once into a rune slice (after NFC normalization, so combining
// sequences compare the way a user expects them to).
type Chars struct {
	ascii string
	runes []rune
}

func NewChars(s string) Chars {
	if isASCII(s) {
		return Chars{ascii: s}
	}
	return Chars{runes: []rune(norm.NFC.String(s))}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func (c Chars) Len() int {
	if c.runes != nil {
		return len(c.runes)
	}
	return len(c.ascii)
}

func (c Chars) At(i int) rune {
	if c.runes != nil {
		return c.runes[i]
	}
	return rune(c.ascii[i])
}

func (c Chars) IsASCII() bool { return c.runes == nil }
