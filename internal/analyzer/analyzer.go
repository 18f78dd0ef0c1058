// Package analyzer implements the text analysis pipeline shared by indexing,
// query compilation, and phrase expansion: tokenization, lowercasing, stop-word
// removal, and Snowball (Porter) stemming.
package analyzer

import (
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
)

// Analyzer processes raw text into normalized, searchable tokens.
// The zero value applies the full pipeline; stop-word removal and stemming can
// be disabled individually to match index settings.
type Analyzer struct {
	KeepStopWords bool // When true, stop words are kept in the output
	NoStemming    bool // When true, tokens are not stemmed
}

// New creates an Analyzer with the full pipeline enabled.
func New() *Analyzer {
	return &Analyzer{}
}

// stopWords defines common English words excluded from indexing and matching.
// These words are too common to provide meaningful search discrimination.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "but": {}, "by": {}, "for": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "no": {}, "not": {}, "of": {},
	"on": {}, "or": {}, "such": {}, "that": {}, "the": {}, "their": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"to": {}, "was": {}, "will": {}, "with": {},
}

// Analyze transforms raw text into searchable tokens by applying the pipeline:
// tokenize, lowercase, stop-word filter, stem.
//
// Example:
//
//	New().Analyze("The administrators were searching")
//	// Returns: ["administr", "search"]
func (a *Analyzer) Analyze(text string) []string {
	tokens := Tokenize(text)

	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.ToLower(token)
		if !a.KeepStopWords {
			if _, isStop := stopWords[token]; isStop {
				continue
			}
		}
		if !a.NoStemming {
			token = snowballeng.Stem(token, false)
		}
		if token != "" {
			result = append(result, token)
		}
	}
	return result
}

// Stem reduces a single lowercase token to its root form, or returns "" when
// the token is a stop word (mirroring the "no searchable terms" behavior of
// the compiled-query path).
func (a *Analyzer) Stem(token string) string {
	token = strings.ToLower(token)
	if !a.KeepStopWords {
		if _, isStop := stopWords[token]; isStop {
			return ""
		}
	}
	if a.NoStemming {
		return token
	}
	return snowballeng.Stem(token, false)
}

// IsStopWord reports whether the given token is in the stop-word list.
func IsStopWord(token string) bool {
	_, ok := stopWords[strings.ToLower(token)]
	return ok
}

// Tokenize splits text into individual words by separating on any character
// that is not a letter or a number. Punctuation, spaces, and special characters
// all act as word boundaries.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
