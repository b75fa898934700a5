package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillscan/tillscan/internal/receipt"
)

func mkLines(confidence float64, texts ...string) []receipt.Line {
	lines := make([]receipt.Line, len(texts))
	for i, text := range texts {
		lines[i] = receipt.Line{Index: i, Text: text, Confidence: confidence}
	}
	return lines
}

func sampleReceiptLines() []receipt.Line {
	return mkLines(0.8,
		"GROCERY MART",
		"123 Main St",
		"01/15/2024 10:45 am",
		"Milk 2.49",
		"Organic Bananas 2 lbs $3.98",
		"Cheddar Cheese 4.99",
		"Frozen Pizza 6.49",
		"Apple Juice 2.99",
		"Subtotal 20.94",
		"Tax 1.68",
		"Total 22.62",
	)
}

func candidateNames(cands []receipt.Candidate) []string {
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.Name
	}
	return names
}

func TestPatternModelExtractsItems(t *testing.T) {
	m := &PatternModel{}
	cands := m.Classify(sampleReceiptLines())

	names := candidateNames(cands)
	assert.Contains(t, names, "Milk")
	assert.Contains(t, names, "Organic Bananas")
	assert.NotContains(t, names, "Subtotal")
	assert.NotContains(t, names, "Total")
	for _, c := range cands {
		assert.Equal(t, "pattern", c.Model)
		assert.Greater(t, c.TotalPrice, 0.0)
		assert.GreaterOrEqual(t, c.Confidence, patternThreshold)
		assert.LessOrEqual(t, c.Confidence, 1.0)
	}
}

func TestPatternModelQuantityEvidence(t *testing.T) {
	m := &PatternModel{}
	cands := m.Classify(mkLines(0.8, "Organic Bananas 2 lbs  $3.98"))
	require.Len(t, cands, 1)

	c := cands[0]
	assert.Contains(t, c.Name, "Organic Bananas")
	assert.InDelta(t, 3.98, c.TotalPrice, 1e-9)
	require.NotNil(t, c.Quantity)
	require.NotNil(t, c.UnitPrice)
	assert.InDelta(t, 2.0, *c.Quantity, 1e-9)
	assert.InDelta(t, 1.99, *c.UnitPrice, 1e-9)
}

func TestPatternModelSkipsPricelessLines(t *testing.T) {
	m := &PatternModel{}
	assert.Empty(t, m.Classify(mkLines(0.9, "Organic Bananas two pounds")))
}

func TestSemanticModelRequiresVocabularyEvidence(t *testing.T) {
	m := &SemanticModel{}

	// Gibberish with a price: no vocabulary evidence, no candidate.
	assert.Empty(t, m.Classify(mkLines(0.9, "Xzqw Blorp 5.00")))

	// Known food word plus unit clears the gate.
	cands := m.Classify(mkLines(0.8, "Organic Bananas 2 lbs $3.98"))
	require.Len(t, cands, 1)
	assert.Equal(t, "semantic", cands[0].Model)
	assert.InDelta(t, 0.9, cands[0].Confidence, 1e-9)
}

func TestSemanticModelThreshold(t *testing.T) {
	// Score 0.3 with poor OCR: (0.3 + 0.2) / 2 = 0.25 < 0.4.
	m := &SemanticModel{}
	assert.Empty(t, m.Classify(mkLines(0.2, "Milk 2.49")))
}

func TestStructuralModelFocusesOnMiddleBlock(t *testing.T) {
	m := &StructuralModel{}
	cands := m.Classify(sampleReceiptLines())

	names := candidateNames(cands)
	// First price line (Milk) and last two (Tax, Total) are trimmed as
	// header/footer; noise filtering removes Subtotal anyway.
	assert.NotContains(t, names, "Milk")
	assert.Contains(t, names, "Organic Bananas")
	assert.Contains(t, names, "Cheddar Cheese")
	assert.Contains(t, names, "Apple Juice")
	for _, c := range cands {
		assert.Equal(t, "structural", c.Model)
		assert.NotContains(t, []string{"Subtotal", "Tax", "Total"}, c.Name)
	}
}

func TestStructuralModelNeedsEnoughPriceLines(t *testing.T) {
	m := &StructuralModel{}
	assert.Empty(t, m.Classify(mkLines(0.9, "Milk 2.49", "Bread 1.99")))
}

func TestRunAllPoolsAllModels(t *testing.T) {
	lines := sampleReceiptLines()
	pooled := RunAll(DefaultClassifiers(), lines)

	models := map[string]bool{}
	for _, c := range pooled {
		models[c.Model] = true
	}
	assert.True(t, models["pattern"])
	assert.True(t, models["semantic"])
	assert.True(t, models["structural"])
}

func TestRunAllDeterministicOrder(t *testing.T) {
	lines := sampleReceiptLines()
	first := RunAll(DefaultClassifiers(), lines)
	second := RunAll(DefaultClassifiers(), lines)
	assert.Equal(t, first, second)
}
