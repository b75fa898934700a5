package classify

import "github.com/tillscan/tillscan/internal/receipt"

// Semantic model thresholds. The vocabulary gate runs before price
// extraction; the final threshold is higher than the pattern model's
// because this model only proposes items it has vocabulary evidence
// for.
const (
	semanticGate      = 0.3
	semanticThreshold = 0.4
)

// SemanticModel proposes items from domain vocabulary: category
// keywords, measurement units, and brand names.
type SemanticModel struct{}

func (m *SemanticModel) Name() string { return "semantic" }

func (m *SemanticModel) Classify(lines []receipt.Line) []receipt.Candidate {
	var candidates []receipt.Candidate
	for _, line := range lines {
		if IsNoiseLine(line.Text) {
			continue
		}
		score := semanticScore(line.Text)
		if score < semanticGate {
			continue
		}
		prices := ExtractPrices(line.Text)
		if len(prices) == 0 {
			continue
		}
		name := extractName(line.Text)
		if name == "" {
			continue
		}
		confidence := blendWithOCR(score, line.Confidence)
		if confidence < semanticThreshold {
			continue
		}
		total := prices[len(prices)-1]
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
