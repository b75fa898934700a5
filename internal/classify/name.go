package classify

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	itemNumberRe    = regexp.MustCompile(`\s*#\d+`)
	atPriceRe       = regexp.MustCompile(`\s*@\s*\d+\.\d{2}`)
	trailingDigitRe = regexp.MustCompile(`\s*\d+\s*$`)
	leadingDigitRe  = regexp.MustCompile(`^\s*\d+\s*`)
	spaceRunRe      = regexp.MustCompile(`\s+`)
	edgePunctRe     = regexp.MustCompile(`^[^\w]+|[^\w\s]+$`)
	lettersRunRe    = regexp.MustCompile(`[a-zA-Z]{3,}`)
)

const (
	minNameLen = 3
	maxNameLen = 60
)

// extractName strips prices, quantity annotations, item numbers, digit
// runs at either edge, and merchant or store-word prefixes; the residue
// is the candidate item name.
func extractName(line string) string {
	name := stripPrices(line)
	name = stripQuantities(name)

	name = atPriceRe.ReplaceAllString(name, "")
	name = itemNumberRe.ReplaceAllString(name, "")
	name = trailingDigitRe.ReplaceAllString(name, "")
	name = leadingDigitRe.ReplaceAllString(name, "")

	name = strings.TrimSpace(name)
	for _, prefix := range merchantIndicators {
		if rest, ok := cutWordPrefix(name, prefix); ok {
			name = rest
		}
	}
	for _, word := range storeWords {
		if rest, ok := cutWordPrefix(name, word); ok {
			name = rest
		}
	}

	name = strings.TrimSpace(spaceRunRe.ReplaceAllString(name, " "))
	return edgePunctRe.ReplaceAllString(name, "")
}

// cutWordPrefix removes a leading ASCII word (case-insensitive) and the
// space after it. Offsets are taken on the original string, so runes
// whose lowercase form differs in byte width cannot misalign the cut;
// EqualFold against an equal-length ASCII slice only succeeds when that
// slice is itself ASCII.
func cutWordPrefix(name, word string) (string, bool) {
	if len(name) <= len(word) || name[len(word)] != ' ' {
		return name, false
	}
	if !strings.EqualFold(name[:len(word)], word) {
		return name, false
	}
	return name[len(word)+1:], true
}

// validName reports whether a candidate name looks like a product:
// bounded length, at least three letters with three of them
// consecutive, and no word from the exclusion vocabulary.
func validName(name string) bool {
	if len(name) < minNameLen || len(name) > maxNameLen {
		return false
	}
	letters := 0
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 3 || !lettersRunRe.MatchString(name) {
		return false
	}
	for _, w := range strings.Fields(strings.ToLower(name)) {
		if _, excluded := excludeWords[w]; excluded {
			return false
		}
	}
	return true
}
