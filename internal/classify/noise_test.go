package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNoiseLine(t *testing.T) {
	noise := []string{
		"SUBTOTAL $18.26",
		"TOTAL $50.00",
		"Tax 1.46",
		"CHANGE DUE 0.28",
		"Thank you for shopping",
		"HAVE A NICE DAY",
		"Cashier: Pat",
		"555-123-4567",
		"receipt@grocerymart.com",
		"01/15/2024",
		"10:45 am",
		"0123456789012", // barcode
		"ab",            // too short
		"12 34 56",      // fewer than 3 letters
		"GROCERY MART",  // uppercase header
	}
	for _, line := range noise {
		assert.True(t, IsNoiseLine(line), "expected noise: %q", line)
	}

	items := []string{
		"Milk 2.49",
		"Organic Bananas 2 lbs $3.98",
		"Cheddar Cheese Block 4.99",
		"Tide detergent 12.99",
	}
	for _, line := range items {
		assert.False(t, IsNoiseLine(line), "expected item: %q", line)
	}
}

func TestIsUppercaseHeader(t *testing.T) {
	assert.True(t, isUppercaseHeader("GROCERY MART"))
	assert.False(t, isUppercaseHeader("MILK 2.49"), "digits dilute the ratio")
	assert.False(t, isUppercaseHeader("SALE"), "short lines are exempt")
}
