// Package metadata extracts receipt-level fields from recognized
// lines: merchant, date, time, subtotal, tax, total, receipt number.
// Missing fields are a normal outcome, never an error.
package metadata

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tillscan/tillscan/internal/classify"
	"github.com/tillscan/tillscan/internal/receipt"
)

// Scan windows. Merchants live in the header, totals in the footer.
const (
	merchantScanLines     = 5
	merchantFallbackLines = 3
	headerScanLines       = 10
	totalsScanLines       = 15
)

var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		regexp.MustCompile(`(\d{4}[/-]\d{1,2}[/-]\d{1,2})`),
	}
	dateLayouts = []string{
		"01/02/2006", "01-02-2006", "2006/01/02", "2006-01-02",
		"01/02/06", "01-02-06",
	}

	timeRe = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}(?::\d{2})?\s*(?:am|pm)?)`)

	receiptNumberRe = regexp.MustCompile(`(?i)\b(?:receipt|rcpt|reference|ref)\.?\s*(?:#|no\.?|num(?:ber)?)?\s*:?\s*#?\s*([A-Za-z0-9-]{3,})`)

	totalWordRe    = regexp.MustCompile(`\btotal\b`)
	subWordRe      = regexp.MustCompile(`\bsub`)
	subtotalWordRe = regexp.MustCompile(`\b(?:subtotal|sub\s*total)\b`)
	taxWordRe      = regexp.MustCompile(`\btax\b`)

	nonWordRe = regexp.MustCompile(`[^\w\s]`)
)

var titleCaser = cases.Title(language.English)

// Extractor pulls receipt metadata out of recognized lines.
type Extractor struct {
	now func() time.Time
}

// NewExtractor returns an extractor using the system clock to reject
// future dates.
func NewExtractor() *Extractor {
	return &Extractor{now: time.Now}
}

// Extract scans the lines for every metadata field. Fields that cannot
// be found stay zero; that is a valid result.
func (e *Extractor) Extract(lines []receipt.Line) receipt.Metadata {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}

	var md receipt.Metadata
	md.MerchantName = e.extractMerchant(texts)
	md.Date = e.extractDate(texts)
	md.Time = e.extractTime(texts)
	md.ReceiptNumber = e.extractReceiptNumber(texts)
	md.Subtotal, md.Tax, md.Total = e.extractTotals(texts)
	return md
}

// extractMerchant matches the header against the merchant vocabulary;
// without a match it falls back to the first substantial non-numeric
// line. Either way the result is title-cased.
func (e *Extractor) extractMerchant(lines []string) string {
	for _, line := range firstN(lines, merchantScanLines) {
		clean := cleanMerchantLine(line)
		if len(clean) <= 3 {
			continue
		}
		lower := strings.ToLower(clean)
		for _, merchant := range classify.MerchantIndicators() {
			if strings.Contains(lower, merchant) {
				return titleCaser.String(lower)
			}
		}
	}
	for _, line := range firstN(lines, merchantFallbackLines) {
		clean := cleanMerchantLine(line)
		if len(clean) > 5 && !startsWithDigit(clean) {
			return titleCaser.String(strings.ToLower(clean))
		}
	}
	return ""
}

func cleanMerchantLine(line string) string {
	return strings.TrimSpace(nonWordRe.ReplaceAllString(line, ""))
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}

// extractDate takes the first header substring that parses under any
// accepted layout. Dates in the future are OCR misreads and dropped.
func (e *Extractor) extractDate(lines []string) *time.Time {
	for _, line := range firstN(lines, headerScanLines) {
		for _, re := range datePatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			for _, layout := range dateLayouts {
				parsed, err := time.Parse(layout, m[1])
				if err != nil {
					continue
				}
				if parsed.After(e.now()) {
					continue
				}
				return &parsed
			}
		}
	}
	return nil
}

func (e *Extractor) extractTime(lines []string) string {
	for _, line := range firstN(lines, headerScanLines) {
		if m := timeRe.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func (e *Extractor) extractReceiptNumber(lines []string) string {
	for _, line := range firstN(lines, headerScanLines) {
		m := receiptNumberRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if containsDigit(m[1]) {
			return m[1]
		}
	}
	return ""
}

func containsDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

// extractTotals scans the footer bottom-up. The first line naming each
// field supplies it, from the rightmost price on that line.
func (e *Extractor) extractTotals(lines []string) (subtotal, tax, total *float64) {
	start := max(len(lines)-totalsScanLines, 0)
	for i := len(lines) - 1; i >= start; i-- {
		lower := strings.ToLower(lines[i])
		prices := classify.ExtractPrices(lines[i])
		if len(prices) == 0 {
			continue
		}
		price := prices[len(prices)-1]
		switch {
		case totalWordRe.MatchString(lower) && !subWordRe.MatchString(lower):
			if total == nil {
				total = &price
			}
		case subtotalWordRe.MatchString(lower):
			if subtotal == nil {
				subtotal = &price
			}
		case taxWordRe.MatchString(lower):
			if tax == nil {
				tax = &price
			}
		}
	}
	return subtotal, tax, total
}

func firstN(lines []string, n int) []string {
	return lines[:min(n, len(lines))]
}
