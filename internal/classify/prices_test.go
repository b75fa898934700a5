package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPrices(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []float64
	}{
		{"currency prefixed", "Milk $2.49", []float64{2.49}},
		{"currency suffixed", "Milk 2.49$", []float64{2.49}},
		{"standalone", "Milk 2.49", []float64{2.49}},
		{"thousands separator", "TV $1,234.56", []float64{1234.56}},
		{"multiple sorted ascending", "2 x $5.99 11.98", []float64{5.99, 11.98}},
		{"duplicates collapse", "$2.49 2.49", []float64{2.49}},
		{"below minimum dropped", "0.00", nil},
		{"no price", "Organic Bananas", nil},
		{"integer is not a price", "Aisle 12", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPrices(tt.line))
		})
	}
}

func TestStripPrices(t *testing.T) {
	got := stripPrices("Organic Bananas $3.98")
	assert.NotContains(t, got, "3.98")
	assert.Contains(t, got, "Organic Bananas")
}
