package classify

import (
	"regexp"
	"strconv"
)

// quantityPatterns match quantity annotations. Two-group forms carry an
// explicit unit price; one-group forms give only the count, and the
// unit price is derived from the line total.
var (
	qtyWithPricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*x\s*\$?(\d+\.\d{2})`),   // 2 x $5.99
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*@\s*\$?(\d+\.\d{2})`),   // 2 @ $5.99
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*for\s*\$?(\d+\.\d{2})`), // 2 for $5.99
	}
	qtyOnlyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)qty\s*(\d+(?:\.\d+)?)`),                   // qty 2
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:each|ea|pcs|pc)\b`),  // 2 ea
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:lbs|lb|oz|kg|g)\b`),  // 2 lbs
	}
)

// extractQuantity pulls quantity and unit price from a line. When only
// a count is present the unit price is the line total divided by it.
// Both results are nil when no annotation matches.
func extractQuantity(line string, totalPrice float64) (quantity, unitPrice *float64) {
	for _, re := range qtyWithPricePatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		q, err1 := strconv.ParseFloat(m[1], 64)
		u, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		return &q, &u
	}
	for _, re := range qtyOnlyPatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		q, err := strconv.ParseFloat(m[1], 64)
		if err != nil || q <= 0 {
			continue
		}
		u := totalPrice / q
		return &q, &u
	}
	return nil, nil
}

// stripQuantities removes quantity annotations from a line during name
// extraction.
func stripQuantities(line string) string {
	for _, re := range qtyWithPricePatterns {
		line = re.ReplaceAllString(line, "")
	}
	for _, re := range qtyOnlyPatterns {
		line = re.ReplaceAllString(line, "")
	}
	return line
}
