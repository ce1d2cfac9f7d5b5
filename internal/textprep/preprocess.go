// Package textprep normalizes extracted document text and derives the
// keyword, summary, and similarity signals used by the budget pipeline.
package textprep

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// Language labels accepted by Options.Language.
const (
	LangPortuguese = "portuguese"
	LangEnglish    = "english"
)

// Options controls the token pipeline applied by Preprocess.
type Options struct {
	RemoveStopwords     bool
	ApplyStemming       bool
	NormalizeWhitespace bool
	RemoveSpecialChars  bool
	MinWordLength       int
	Language            string
}

// DefaultOptions returns the standard preprocessing profile.
func DefaultOptions() Options {
	return Options{
		RemoveStopwords:     true,
		ApplyStemming:       false,
		NormalizeWhitespace: true,
		RemoveSpecialChars:  false,
		MinWordLength:       2,
		Language:            LangPortuguese,
	}
}

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reSpaces     = regexp.MustCompile(`[ \t]+`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reSpecial    = regexp.MustCompile(`[^\p{L}\p{N}\s.,;:!?()\[\]{}"'-]`)
)

// Preprocess runs the token pipeline: whitespace normalization, optional
// special-character stripping, tokenization, minimum-length filtering,
// stopword removal, and optional stemming. The output is a stable fixed
// point: preprocessing already-preprocessed text yields the same string.
func Preprocess(text string, opts Options) string {
	if opts.Language == "" {
		opts.Language = LangPortuguese
	}

	if opts.NormalizeWhitespace {
		text = normalizeWhitespace(text)
	}
	if opts.RemoveSpecialChars {
		text = reSpecial.ReplaceAllString(text, " ")
	}

	tokens := tokenize(text)

	if opts.MinWordLength > 0 {
		kept := tokens[:0]
		for _, tok := range tokens {
			if len([]rune(tok)) >= opts.MinWordLength {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	if opts.RemoveStopwords {
		set := stopwordsFor(opts.Language)
		kept := tokens[:0]
		for _, tok := range tokens {
			if _, stop := set[strings.ToLower(tok)]; !stop {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	if opts.ApplyStemming {
		for i, tok := range tokens {
			// snowball has no Portuguese stemmer; unsupported languages
			// keep the token untouched.
			if stemmed, err := snowball.Stem(tok, opts.Language, false); err == nil {
				tokens[i] = stemmed
			}
		}
	}

	return strings.Join(tokens, " ")
}

// normalizeWhitespace normalizes line endings, collapses space runs, and
// caps consecutive blank lines at one.
func normalizeWhitespace(text string) string {
	text = reCRLF.ReplaceAllString(text, "\n")
	text = reSpaces.ReplaceAllString(text, " ")
	text = reMultiBlank.ReplaceAllString(text, "\n\n")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// tokenize splits text into letter/digit runs, dropping punctuation.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
