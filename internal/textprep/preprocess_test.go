package textprep

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessRemovesPortugueseStopwords(t *testing.T) {
	got := Preprocess("o orçamento de reforma para a cozinha", DefaultOptions())
	assert.Equal(t, "orçamento reforma cozinha", got)
}

func TestPreprocessEnglishStopwords(t *testing.T) {
	opts := DefaultOptions()
	opts.Language = LangEnglish
	got := Preprocess("the budget for the kitchen renovation", opts)
	assert.Equal(t, "budget kitchen renovation", got)
}

func TestPreprocessMinWordLength(t *testing.T) {
	opts := Options{MinWordLength: 4, NormalizeWhitespace: true}
	got := Preprocess("abc abcd ab abcde", opts)
	assert.Equal(t, "abcd abcde", got)
}

func TestPreprocessIsIdempotent(t *testing.T) {
	opts := DefaultOptions()
	once := Preprocess("Orçamento   da obra:\r\n\r\n\r\nmateriais, mão de obra!", opts)
	twice := Preprocess(once, opts)
	assert.Equal(t, once, twice)
}

func TestPreprocessRemoveSpecialChars(t *testing.T) {
	opts := Options{RemoveSpecialChars: true, NormalizeWhitespace: true}
	got := Preprocess("preço: R$ 1.500,00 #promo", opts)
	assert.NotContains(t, got, "$")
	assert.NotContains(t, got, "#")
	assert.Contains(t, got, "1")
	assert.Contains(t, got, "500")
}

func TestPreprocessStemmingUnsupportedLanguagePassesThrough(t *testing.T) {
	opts := Options{ApplyStemming: true, Language: LangPortuguese}
	got := Preprocess("reformas", opts)
	assert.Equal(t, "reformas", got)
}

func TestPreprocessStemmingEnglish(t *testing.T) {
	opts := Options{ApplyStemming: true, Language: LangEnglish}
	got := Preprocess("running", opts)
	assert.Equal(t, "run", got)
}

func TestNormalizeWhitespace(t *testing.T) {
	got := normalizeWhitespace("a  \t b\r\nc\n\n\n\nd")
	assert.Equal(t, "a b\nc\n\nd", got)
}

func TestTokenizeSplitsOnPunctuation(t *testing.T) {
	assert.Equal(t, []string{"obra", "2024", "fase", "1"}, tokenize("obra-2024 (fase:1)"))
}
