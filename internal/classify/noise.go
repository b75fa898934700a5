package classify

import (
	"regexp"
	"strings"
	"unicode"
)

// noisePatterns identify lines that are receipt boilerplate rather than
// purchasable items. Matched against the lowercased, trimmed line.
var noisePatterns = []*regexp.Regexp{
	// Totals and payments
	regexp.MustCompile(`^(sub\s*total|subtotal|sub-total)`),
	regexp.MustCompile(`^(total|grand\s*total|final\s*total|amount\s*due)`),
	regexp.MustCompile(`^(tax|sales\s*tax|hst|gst|pst|vat|duty)`),
	regexp.MustCompile(`^(change|cash|credit|debit|card|payment)`),
	regexp.MustCompile(`^(balance|due|owing|paid)`),
	regexp.MustCompile(`^(discount|coupon|savings|promotion)`),

	// Receipt metadata
	regexp.MustCompile(`^(receipt|rcpt|ref|reference|transaction|trans|txn)`),
	regexp.MustCompile(`^(store|shop|market|location|address)`),
	regexp.MustCompile(`^(phone|tel|telephone|email|website|www)`),
	regexp.MustCompile(`^(date|time|day|hour|minute)`),
	regexp.MustCompile(`^(cashier|clerk|server|operator|manager)`),

	// Customer-service boilerplate
	regexp.MustCompile(`^(thank\s*you|thanks|visit|welcome|goodbye)`),
	regexp.MustCompile(`^(have\s*a|nice\s*day|good\s*day|see\s*you)`),
	regexp.MustCompile(`^(customer|member|loyalty|points|rewards)`),
	regexp.MustCompile(`^(return\s*policy|exchange|warranty|guarantee)`),
	regexp.MustCompile(`^(survey|feedback|rate\s*us|review)`),

	// Dates, times, weekdays, months
	regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}$`),
	regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?\s*(am|pm)?$`),
	regexp.MustCompile(`^(mon|tue|wed|thu|fri|sat|sun)\b`),
	regexp.MustCompile(`^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\b`),

	// Contact info
	regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`),
	regexp.MustCompile(`^\+?1?[-.\s]?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}$`),

	// Barcodes and long codes
	regexp.MustCompile(`^\d{10,}$`),
	regexp.MustCompile(`^[a-z0-9]{8,}$`),
}

const (
	minNoiseLineLen = 3
	maxNoiseLineLen = 80
	minAlphaChars   = 3
)

// IsNoiseLine reports whether the line is metadata or boilerplate and
// must never become an item, regardless of which model examines it.
func IsNoiseLine(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	if len(lower) < minNoiseLineLen || len(lower) > maxNoiseLineLen {
		return true
	}
	for _, re := range noisePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	alpha := 0
	for _, r := range lower {
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if alpha < minAlphaChars {
		return true
	}
	return isUppercaseHeader(line)
}

// isUppercaseHeader flags lines that are almost entirely uppercase,
// which on receipts are store headers rather than items.
func isUppercaseHeader(line string) bool {
	if len(line) <= 5 {
		return false
	}
	upper := 0
	for _, r := range line {
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper)/float64(len(line)) > 0.8
}
