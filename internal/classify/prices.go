package classify

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Price bounds for a single receipt line. Values outside this range are
// treated as OCR garbage or codes, not prices.
const (
	minLinePrice = 0.01
	maxLinePrice = 9999.99
)

// pricePatterns match decimal amounts in the forms receipts actually
// print. Group 1 always carries the numeric text. By convention the
// rightmost (largest after sorting) price on a line is its total.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*(\d{1,4}(?:,\d{3})*\.\d{2})`),            // $1,234.56
	regexp.MustCompile(`(\d{1,4}(?:,\d{3})*\.\d{2})\s*\$`),            // 1,234.56$
	regexp.MustCompile(`(\d{1,4}(?:,\d{3})*\.\d{2})(?:[^\d.]|$)`),     // standalone
	regexp.MustCompile(`(?i)(\d+\.\d{2})\s*(?:ea|each|lbs|lb|oz|kg|g|ml|l|pcs|pc)\b`), // unit price
}

// ExtractPrices returns every validated price on the line, deduplicated
// and sorted ascending. An empty result means the line carries no
// price and cannot be an item.
func ExtractPrices(line string) []float64 {
	seen := make(map[float64]struct{})
	var prices []float64
	for _, re := range pricePatterns {
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			raw := strings.ReplaceAll(m[1], ",", "")
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			if price < minLinePrice || price > maxLinePrice {
				continue
			}
			if _, ok := seen[price]; ok {
				continue
			}
			seen[price] = struct{}{}
			prices = append(prices, price)
		}
	}
	sort.Float64s(prices)
	return prices
}

// stripPrices removes every price-shaped substring from the line.
func stripPrices(line string) string {
	for _, re := range pricePatterns {
		line = re.ReplaceAllString(line, "")
	}
	return line
}
