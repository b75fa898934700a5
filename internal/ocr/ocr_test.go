package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegModeString(t *testing.T) {
	assert.Equal(t, "auto", SegAuto.String())
	assert.Equal(t, "block", SegBlock.String())
	assert.Equal(t, "sparse", SegSparseText.String())
	assert.Equal(t, "column", SegSingleColumn.String())
}

func TestMeanConfidence(t *testing.T) {
	assert.Zero(t, MeanConfidence(nil))
	assert.Zero(t, MeanConfidence([]Token{}))

	tokens := []Token{
		{Text: "MILK", Line: 0, Confidence: 90},
		{Text: "3.49", Line: 0, Confidence: 70},
	}
	assert.InDelta(t, 80.0, MeanConfidence(tokens), 1e-9)
}
