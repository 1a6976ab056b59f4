package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLowercasesAndStripsPunctuation(t *testing.T) {
	tokens := Normalize("What are the Admission Requirements?!")
	assert.Equal(t, []string{"admission", "requirement"}, tokens)
}

func TestNormalizeDropsStopwordsAndShortTokens(t *testing.T) {
	assert.Empty(t, Normalize("i am at an it to be"))
	assert.Empty(t, Normalize(""))
	assert.Empty(t, Normalize("   \t\n  "))
}

func TestNormalizeLemmatizesPlurals(t *testing.T) {
	cases := map[string]string{
		"deadlines":    "deadline",
		"policies":     "policy",
		"classes":      "class",
		"boxes":        "box",
		"criteria":     "criterion",
		"universities": "university",
		"campus":       "campus",
	}
	for input, want := range cases {
		tokens := Normalize(input)
		assert.Equal(t, []string{want}, tokens, "input %q", input)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"What are the admission requirements?",
		"Tell me about tuition fees and deadlines!",
		"others policies for universities",
		"Can I visit the campus tours?",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(NormalizeText(input))
		assert.Equal(t, once, twice, "input %q", input)
	}
}

func TestNormalizeKeepsDigits(t *testing.T) {
	tokens := Normalize("SAT 1200 required")
	assert.Contains(t, tokens, "sat")
	assert.Contains(t, tokens, "1200")
	assert.Contains(t, tokens, "required")
}
