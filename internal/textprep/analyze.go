package textprep

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// formatThreshold is the length above which FormatForLLM prepends a summary
// and keyword block, keeping long documents usable within model context
// windows while preserving full fidelity.
const formatThreshold = 2000

const (
	summaryKeywords  = 20 // keyword pool used to score sentences
	envelopeSummary  = 5
	envelopeKeywords = 15
)

var reSentenceEnd = regexp.MustCompile(`[.!?]+`)

// ExtractKeywords returns up to maxKeywords terms ranked by descending
// frequency over the stopword-filtered token stream. Ties keep
// first-occurrence order. A non-positive maxKeywords yields nil.
func ExtractKeywords(text string, maxKeywords int) []string {
	if maxKeywords <= 0 {
		return nil
	}
	processed := Preprocess(text, Options{
		RemoveStopwords:     true,
		NormalizeWhitespace: true,
		MinWordLength:       3,
	})

	tokens := tokenize(strings.ToLower(processed))
	frequency := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, seen := frequency[tok]; !seen {
			order = append(order, tok)
		}
		frequency[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return frequency[order[i]] > frequency[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}

// SummarizeText produces an extractive summary of at most maxSentences
// sentences. Sentences are scored by keyword membership and the selected
// ones are re-joined in original document order, not score order.
func SummarizeText(text string, maxSentences int) string {
	sentences := splitSentences(text)
	if len(sentences) <= maxSentences {
		return text
	}

	keywordSet := make(map[string]struct{})
	for _, kw := range ExtractKeywords(text, summaryKeywords) {
		keywordSet[kw] = struct{}{}
	}

	type scored struct {
		index int
		score int
	}
	ranked := make([]scored, len(sentences))
	for i, sentence := range sentences {
		score := 0
		for _, word := range strings.Fields(strings.ToLower(sentence)) {
			if _, ok := keywordSet[word]; ok {
				score++
			}
		}
		ranked[i] = scored{index: i, score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	ranked = ranked[:maxSentences]
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].index < ranked[j].index
	})

	parts := make([]string, len(ranked))
	for i, r := range ranked {
		parts[i] = sentences[r.index]
	}
	return strings.Join(parts, ". ") + "."
}

func splitSentences(text string) []string {
	var sentences []string
	for _, s := range reSentenceEnd.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// Similarity computes the Sorensen-Dice coefficient between the
// preprocessed forms of two texts, in [0,1].
func Similarity(a, b string) float64 {
	pa := Preprocess(a, DefaultOptions())
	pb := Preprocess(b, DefaultOptions())
	if pa == pb {
		return 1
	}
	return strutil.Similarity(pa, pb, metrics.NewSorensenDice())
}

// FormatForLLM prepares extracted text for the budget prompt. Stopwords are
// retained for model context; long documents get a structured envelope with
// a generated summary and keyword list ahead of the full text.
func FormatForLLM(text string) string {
	processed := normalizeWhitespace(text)
	if len(processed) <= formatThreshold {
		return processed
	}

	summary := SummarizeText(processed, envelopeSummary)
	keywords := ExtractKeywords(processed, envelopeKeywords)
	return fmt.Sprintf("SUMMARY: %s\n\nKEYWORDS: %s\n\nFULL TEXT:\n%s",
		summary, strings.Join(keywords, ", "), processed)
}
