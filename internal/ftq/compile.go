package ftq

import (
	"github.com/gcbaptista/go-query-engine/internal/analyzer"
	"github.com/gcbaptista/go-query-engine/internal/query"
)

// Compile normalizes, repairs, and compiles a raw user query string into a
// boolean query over stemmed terms. It returns nil, the no-query sentinel,
// when nothing searchable remains: input that normalizes to an empty stream,
// or whose terms are all stop words.
//
// Compile never fails. By the time the parser runs, Repair guarantees balanced
// parentheses and properly placed operators, so the parser is total over its
// input; hitting an unparseable stream would be a programming error in Repair,
// not a runtime condition, and degrades to the sentinel.
func Compile(raw string, an *analyzer.Analyzer) *query.Node {
	tokens := Repair(Normalize(raw))
	if len(tokens) == 0 {
		return nil
	}
	p := &parser{tokens: tokens, analyzer: an}
	return p.parseOr()
}

// parser is a recursive-descent parser over a repaired token stream.
// Precedence, tightest first: ! then & then |.
type parser struct {
	tokens   []Token
	pos      int
	analyzer *analyzer.Analyzer
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) parseOr() *query.Node {
	children := []*query.Node{p.parseAnd()}
	for {
		t, ok := p.peek()
		if !ok || t.Kind != KindOr {
			break
		}
		p.pos++
		children = append(children, p.parseAnd())
	}
	return query.Or(children...)
}

func (p *parser) parseAnd() *query.Node {
	children := []*query.Node{p.parseNot()}
	for {
		t, ok := p.peek()
		if !ok || t.Kind != KindAnd {
			break
		}
		p.pos++
		children = append(children, p.parseNot())
	}
	return query.And(children...)
}

func (p *parser) parseNot() *query.Node {
	t, ok := p.peek()
	if !ok {
		return nil
	}

	switch t.Kind {
	case KindNot:
		p.pos++
		return query.Not(p.parseNot())

	case KindOpen:
		p.pos++
		node := p.parseOr()
		if next, ok := p.peek(); ok && next.Kind == KindClose {
			p.pos++
		}
		return node

	case KindTerm:
		p.pos++
		return p.termNode(t.Text)
	}

	// Repair leaves no other token in operand position; skip and degrade.
	p.pos++
	return nil
}

// termNode analyzes a term's text into stemmed tokens. Stop words fold away,
// the engine's "no searchable terms" case. Compound terms (hyphenated words)
// analyze to several tokens and become a conjunction.
func (p *parser) termNode(text string) *query.Node {
	stems := p.analyzer.Analyze(text)
	switch len(stems) {
	case 0:
		return nil
	case 1:
		return query.Term(stems[0])
	}
	children := make([]*query.Node, len(stems))
	for i, stem := range stems {
		children[i] = query.Term(stem)
	}
	return query.And(children...)
}
