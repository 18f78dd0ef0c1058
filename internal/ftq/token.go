// Package ftq turns free-form user search strings into well-formed boolean
// full-text queries. Any input, however degenerate, is accepted: malformed
// boolean expressions are silently repaired, and input that normalizes to
// nothing compiles to the nil no-query sentinel ("match nothing").
package ftq

import "strings"

// Kind identifies the kind of a normalized token.
type Kind int

const (
	KindTerm  Kind = iota // A search term (may be a hyphenated compound)
	KindAnd               // &
	KindOr                // |
	KindNot               // !
	KindOpen              // (
	KindClose             // )
)

// Token is one element of a normalized token stream.
type Token struct {
	Kind Kind
	Text string // Set only for KindTerm
}

func (t Token) String() string {
	switch t.Kind {
	case KindTerm:
		return t.Text
	case KindAnd:
		return "&"
	case KindOr:
		return "|"
	case KindNot:
		return "!"
	case KindOpen:
		return "("
	case KindClose:
		return ")"
	}
	return ""
}

// Render joins a token stream into its canonical single-spaced string form,
// e.g. "hi & mom" or "( foo | bar )". The "!" operator binds to its operand
// without a space ("fresh & !frozen") so the rendered form re-normalizes to
// the same stream.
func Render(tokens []Token) string {
	var parts []string
	bang := ""
	for _, t := range tokens {
		if t.Kind == KindNot {
			bang += "!"
			continue
		}
		parts = append(parts, bang+t.String())
		bang = ""
	}
	return strings.Join(parts, " ")
}
