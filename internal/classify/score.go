package classify

import (
	"regexp"
	"strings"
)

// Scoring building blocks. Each is a named, independently testable
// function; the models compose them and cap the result at 1.0.

// nameQualityBonus rewards longer, multi-word names.
func nameQualityBonus(name string) float64 {
	bonus := 0.0
	if len(name) >= 5 {
		bonus += 0.1
	}
	if len(strings.Fields(name)) >= 2 {
		bonus += 0.1
	}
	return bonus
}

// pricePlausibilityBonus rewards prices in the range where single
// grocery items actually live.
func pricePlausibilityBonus(price float64) float64 {
	switch {
	case price >= 0.50 && price <= 100.00:
		return 0.2
	case price >= 0.01 && price <= 500.00:
		return 0.1
	default:
		return 0
	}
}

var unitRes = buildUnitRes()

func buildUnitRes() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(measurementUnits))
	for _, unit := range measurementUnits {
		res = append(res, regexp.MustCompile(`\b`+regexp.QuoteMeta(unit)+`\b`))
	}
	return res
}

// semanticScore measures how much domain vocabulary the line carries:
// category keywords and brands by substring, measurement units by whole
// word. Capped at 1.0.
func semanticScore(line string) float64 {
	lower := strings.ToLower(line)
	score := 0.0
	for _, keywords := range categoryKeywords {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				score += 0.3
			}
		}
	}
	for _, re := range unitRes {
		if re.MatchString(lower) {
			score += 0.4
		}
	}
	for _, brand := range commonBrands {
		if strings.Contains(lower, brand) {
			score += 0.2
		}
	}
	return capScore(score)
}

// positionBonus rewards lines in the central 60% of the document,
// where the item block of a receipt sits.
func positionBonus(index, totalLines int) float64 {
	if totalLines == 0 {
		return 0
	}
	rel := float64(index) / float64(totalLines)
	if rel >= 0.2 && rel <= 0.8 {
		return 0.2
	}
	return 0
}

// blendWithOCR averages a heuristic score with the line's OCR
// confidence instead of summing, so neither source dominates.
func blendWithOCR(score, ocrConfidence float64) float64 {
	return (score + ocrConfidence) / 2
}

func capScore(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}
