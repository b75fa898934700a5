package classify

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExtractName(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"price stripped", "Milk 2.49", "Milk"},
		{"currency and unit stripped", "Organic Bananas 2 lbs $3.98", "Organic Bananas"},
		{"item number stripped", "Cereal #1234 4.99", "Cereal"},
		{"leading digits stripped", "012 Peanut Butter 3.49", "Peanut Butter"},
		{"merchant prefix stripped", "Walmart Great Value Milk 2.49", "Great Value Milk"},
		{"store word prefix stripped", "Grocery Apple Juice 2.99", "Apple Juice"},
		{"edge punctuation trimmed", "*Frozen Peas* 1.89", "Frozen Peas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractName(tt.line))
		})
	}
}

func TestCutWordPrefix(t *testing.T) {
	rest, ok := cutWordPrefix("WALMART Great Value Milk", "walmart")
	assert.True(t, ok)
	assert.Equal(t, "Great Value Milk", rest)

	// A rune whose lowercase form has a different byte width must not
	// shift the cut off a rune boundary.
	rest, ok = cutWordPrefix("WALMART \u212Aombucha", "walmart")
	assert.True(t, ok)
	assert.Equal(t, "\u212Aombucha", rest)
	assert.True(t, utf8.ValidString(rest))

	// Multi-byte runes never fold-match an ASCII prefix slice.
	_, ok = cutWordPrefix("\u212AIRKLAND Granola Bar", "kirkland")
	assert.False(t, ok)

	_, ok = cutWordPrefix("Walmart", "walmart") // no following word
	assert.False(t, ok)
	_, ok = cutWordPrefix("Walmartx Milk", "walmart")
	assert.False(t, ok)
}

func TestExtractNameKeepsValidUTF8(t *testing.T) {
	for _, line := range []string{
		"WALMART \u212Aombucha 3.99",
		"Target İzmir Figs 5.99",
		"Crème Fraîche 4.99",
	} {
		got := extractName(line)
		assert.True(t, utf8.ValidString(got), "invalid UTF-8 from %q: %q", line, got)
	}
	assert.Equal(t, "Crème Fraîche", extractName("Crème Fraîche 4.99"))
}

func TestValidName(t *testing.T) {
	valid := []string{"Milk", "Organic Bananas", "Cheddar Cheese Block"}
	for _, name := range valid {
		assert.True(t, validName(name), "expected valid: %q", name)
	}

	invalid := []string{
		"",
		"ab",            // too short
		"a b c",         // no three consecutive letters
		"Total",         // exclusion vocabulary
		"Member Card",   // exclusion vocabulary
		"12345",         // no letters
	}
	for _, name := range invalid {
		assert.False(t, validName(name), "expected invalid: %q", name)
	}
}
