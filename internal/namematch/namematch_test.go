package namematch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/tentcards/internal/namematch"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Goblin", "goblin"},
		{"  Young   Red Dragon ", "young red dragon"},
		{"Mind-Flayer (Psion)", "mindflayer psion"},
		{"Owlbear!!", "owlbear"},
		{"Tab\tand\nnewline", "tab and newline"},
		{"???", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := namematch.Normalize(tc.input)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, got, namematch.Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "young-red-dragon", namematch.Slug("Young Red Dragon"))
	assert.Equal(t, "owlbear", namematch.Slug("Owlbear!"))
}

func TestVariations(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "plural collapses to singular",
			input:    "Goblins",
			expected: []string{"goblins", "goblin"},
		},
		{
			name:     "leading article is stripped before flipping",
			input:    "The Goblin",
			expected: []string{"the goblin", "goblin", "goblins"},
		},
		{
			name:     "compound names fall back to the last word",
			input:    "Giant Spider",
			expected: []string{"giant spider", "giant spiders", "spider"},
		},
		{
			name:     "aged dragon tries the base color",
			input:    "Ancient Red Dragon",
			expected: []string{"ancient red dragon", "ancient red dragons", "dragon", "red dragon"},
		},
		{
			name:     "wyrmling suffix tries the base color",
			input:    "Red Dragon Wyrmling",
			expected: []string{"red dragon wyrmling", "red dragon wyrmlings", "wyrmling", "red dragon"},
		},
		{
			name:     "bare color dragon tries every age",
			input:    "Blue Dragon",
			expected: []string{"blue dragon", "blue dragons", "dragon", "blue dragon wyrmling", "young blue dragon", "adult blue dragon", "ancient blue dragon"},
		},
		{
			name:     "dropped dragon word is restored",
			input:    "Young Red",
			expected: []string{"young red", "young reds", "red", "young red dragon", "red dragon"},
		},
		{
			name:     "blank input has no candidates",
			input:    " !! ",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, namematch.Variations(tc.input))
		})
	}
}

func TestTransformOrder(t *testing.T) {
	names := make([]string, len(namematch.Transforms))
	for i, tr := range namematch.Transforms {
		names[i] = tr.Name
	}
	assert.Equal(t, []string{"exact", "strip_the", "plural_flip", "last_word", "dragon"}, names)
}
