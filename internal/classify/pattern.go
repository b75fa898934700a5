package classify

import "github.com/tillscan/tillscan/internal/receipt"

// patternThreshold is deliberately lower than the other models'; the
// pattern model is the recall-oriented member of the ensemble.
const patternThreshold = 0.3

// PatternModel proposes items from regex evidence alone: a price on
// the line, a plausible residue name, and no noise-pattern match.
type PatternModel struct{}

func (m *PatternModel) Name() string { return "pattern" }

func (m *PatternModel) Classify(lines []receipt.Line) []receipt.Candidate {
	var candidates []receipt.Candidate
	for _, line := range lines {
		if IsNoiseLine(line.Text) {
			continue
		}
		prices := ExtractPrices(line.Text)
		if len(prices) == 0 {
			continue
		}
		name := extractName(line.Text)
		if name == "" || !validName(name) {
			continue
		}
		total := prices[len(prices)-1]
		confidence := m.score(line, name, total)
		if confidence < patternThreshold {
			continue
		}
		quantity, unitPrice := extractQuantity(line.Text, total)
		candidates = append(candidates, receipt.Candidate{
			LineIndex:  line.Index,
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

// score starts from a base constant, averages in OCR confidence and
// semantic evidence, then adds name-quality and price-plausibility
// bonuses, capped at 1.0.
func (m *PatternModel) score(line receipt.Line, name string, price float64) float64 {
	confidence := 0.4
	confidence = blendWithOCR(confidence, line.Confidence)
	confidence = (confidence + semanticScore(line.Text)) / 2
	confidence += nameQualityBonus(name)
	confidence += pricePlausibilityBonus(price)
	return capScore(confidence)
}
