package ftq

import (
	"strings"
	"unicode"
)

// Normalize converts a raw user query string into a normalized token stream:
// words are lowercased, whitespace is collapsed, the boolean keywords AND, OR
// and NOT (any case) are rewritten to their operator symbols, and user-typed
// punctuation is stripped.
//
// Operator symbols typed literally inside or after a word are punctuation, not
// operators: "cool!" normalizes to the term "cool". A standalone symbol, or a
// "!" prefixing an operand, is kept as an operator, so normalizing an already
// normalized expression returns it unchanged.
//
// Hyphens are special-cased: a leading hyphen before a letter-word is a stray
// negation marker and is dropped, a leading hyphen before digits marks a
// negative number and is kept, interior hyphens join compound terms, and
// trailing hyphens are dropped.
//
// Normalize never fails; degenerate input yields an empty stream.
func Normalize(raw string) []Token {
	var tokens []Token
	runes := []rune(raw)
	i := 0

	for i < len(runes) {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case r == '(':
			tokens = append(tokens, Token{Kind: KindOpen})
			i++

		case r == ')':
			tokens = append(tokens, Token{Kind: KindClose})
			i++

		case r == '&' || r == '|':
			// An operator only when standing free of words; a symbol embedded
			// in a word ("AT&T") merely separates words. A symbol with no left
			// operand is dropped outright.
			prevWordy := i > 0 && isWordRune(runes[i-1])
			nextWordy := i+1 < len(runes) && isWordRune(runes[i+1])
			if !prevWordy && !nextWordy && prevIsOperand(tokens) {
				kind := KindAnd
				if r == '|' {
					kind = KindOr
				}
				tokens = append(tokens, Token{Kind: kind})
			}
			i++

		case r == '!':
			// "!" is NOT only when it prefixes an operand; trailing or
			// embedded "!" is user punctuation and is removed.
			if i+1 < len(runes) && startsOperand(runes[i+1]) && !wordJustEnded(runes, i) {
				tokens = append(tokens, Token{Kind: KindNot})
			}
			i++

		case isWordRune(r):
			start := i
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
			word := normalizeWord(string(runes[start:i]))
			if word == "" {
				continue
			}
			switch word {
			case "and":
				tokens = append(tokens, Token{Kind: KindAnd})
			case "or":
				tokens = append(tokens, Token{Kind: KindOr})
			case "not":
				tokens = append(tokens, Token{Kind: KindNot})
			default:
				tokens = append(tokens, Token{Kind: KindTerm, Text: word})
			}

		default:
			// Any other punctuation is a word separator with no search semantics.
			i++
		}
	}

	return tokens
}

// isWordRune reports whether r can be part of a raw word chunk. Hyphens are
// included so compound terms and negative numbers survive scanning; their
// edge cases are resolved in normalizeWord.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-'
}

// startsOperand reports whether r can begin an operand (a term or a group).
func startsOperand(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '(' || r == '-'
}

// prevIsOperand reports whether the last emitted token can act as a left
// operand for a binary operator.
func prevIsOperand(tokens []Token) bool {
	if len(tokens) == 0 {
		return false
	}
	k := tokens[len(tokens)-1].Kind
	return k == KindTerm || k == KindClose
}

// wordJustEnded reports whether the rune at position i directly follows a word
// character, meaning a symbol here is trailing punctuation ("cool!") rather
// than a prefix operator.
func wordJustEnded(runes []rune, i int) bool {
	if i == 0 {
		return false
	}
	prev := runes[i-1]
	return unicode.IsLetter(prev) || unicode.IsNumber(prev)
}

// normalizeWord lowercases a raw word chunk and applies the hyphen rules.
// It returns "" when nothing searchable remains (e.g. the chunk was "-").
func normalizeWord(chunk string) string {
	chunk = strings.ToLower(chunk)

	// Collapse hyphen runs so "foo--bar" behaves like "foo-bar".
	for strings.Contains(chunk, "--") {
		chunk = strings.ReplaceAll(chunk, "--", "-")
	}

	// Trailing hyphens carry no search semantics.
	chunk = strings.TrimRight(chunk, "-")

	// A leading hyphen is kept only for negative numbers; before a letter-word
	// it is a stray negation marker.
	if strings.HasPrefix(chunk, "-") {
		rest := chunk[1:]
		if rest == "" {
			return ""
		}
		if !isAllDigits(rest) {
			chunk = rest
		}
	}

	return chunk
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
