package classify

import (
	"regexp"

	"github.com/tillscan/tillscan/internal/receipt"
)

const (
	structuralThreshold = 0.4

	// minPriceLines is the smallest item block worth structural
	// analysis; below it the header/footer trim has nothing to work
	// with.
	minPriceLines = 4
	// trimAbove is the price-line count past which the first and last
	// few price lines are assumed to be header and totals.
	trimAbove = 5
)

// nameThenPriceRe is the shape of a typical item row: letters followed
// eventually by a decimal amount.
var nameThenPriceRe = regexp.MustCompile(`[a-zA-Z].+\$?\d+\.\d{2}`)

// StructuralModel proposes items from receipt layout: the item block
// is the contiguous middle run of price-bearing lines, bounded by a
// header above and totals below.
type StructuralModel struct{}

func (m *StructuralModel) Name() string { return "structural" }

func (m *StructuralModel) Classify(lines []receipt.Line) []receipt.Candidate {
	type priceLine struct {
		line   receipt.Line
		prices []float64
	}
	var priceLines []priceLine
	for _, line := range lines {
		if prices := ExtractPrices(line.Text); len(prices) > 0 {
			priceLines = append(priceLines, priceLine{line: line, prices: prices})
		}
	}
	if len(priceLines) < minPriceLines {
		return nil
	}

	start, end := 0, len(priceLines)
	if len(priceLines) > trimAbove {
		start = 1
		end = len(priceLines) - 2
	}

	var candidates []receipt.Candidate
	for _, pl := range priceLines[start:end] {
		if IsNoiseLine(pl.line.Text) {
			continue
		}
		total := pl.prices[len(pl.prices)-1]
		confidence := m.score(pl.line, total, len(lines))
		if confidence < structuralThreshold {
			continue
		}
		name := extractName(pl.line.Text)
		if name == "" || !validName(name) {
			continue
		}
		quantity, unitPrice := extractQuantity(pl.line.Text, total)
		candidates = append(candidates, receipt.Candidate{
			LineIndex:  pl.line.Index,
			Name:       name,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalPrice: total,
			Confidence: confidence,
			Model:      m.Name(),
		})
	}
	return candidates
}

// score combines relative position, price plausibility for single
// items, and the letters-then-price row shape.
func (m *StructuralModel) score(line receipt.Line, price float64, totalLines int) float64 {
	confidence := 0.5
	confidence += positionBonus(line.Index, totalLines)
	if price >= 0.50 && price <= 50.00 {
		confidence += 0.2
	}
	if nameThenPriceRe.MatchString(line.Text) {
		confidence += 0.1
	}
	return capScore(confidence)
}
