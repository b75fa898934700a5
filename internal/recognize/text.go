package recognize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var wsRe = regexp.MustCompile(`\s+`)

// CleanLine normalizes a reconstructed OCR line: NFC normalization,
// zero-width and control character removal, whitespace collapse, trim.
func CleanLine(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = removeNoiseRunes(s)
	s = wsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// removeNoiseRunes drops zero-width characters and non-printable control
// characters commonly produced by OCR.
func removeNoiseRunes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\u200B', // zero width space
			'\u200C', // zero width non-joiner
			'\u200D', // zero width joiner
			'\uFEFF': // zero width no-break space (BOM)
			continue
		}
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
