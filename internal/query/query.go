// Package query defines the compiled boolean query representation produced by
// the ftq compiler and consumed by the search service. A nil *Node is the
// no-query sentinel: callers must treat it as "match nothing".
package query

import "strings"

// Op identifies the kind of a query node.
type Op int

const (
	OpTerm Op = iota // A single stemmed term
	OpAnd            // All children must match
	OpOr             // At least one child must match
	OpNot            // The single child must not match
)

// Node is one node of a compiled boolean query. Once built, a Node is never
// mutated; it is consumed by the search service within the same request.
type Node struct {
	Op       Op
	Term     string  // Set only for OpTerm
	Children []*Node // Set for OpAnd, OpOr (>=2) and OpNot (exactly 1)
}

// Term returns a term node.
func Term(term string) *Node {
	return &Node{Op: OpTerm, Term: term}
}

// Not returns a negation of the child, or nil when the child is nil.
func Not(child *Node) *Node {
	if child == nil {
		return nil
	}
	return &Node{Op: OpNot, Children: []*Node{child}}
}

// And conjoins the non-nil children. Nil children fold away, mirroring how the
// underlying engine drops stop-word terms from a conjunction.
func And(children ...*Node) *Node {
	return combine(OpAnd, children)
}

// Or disjoins the non-nil children.
func Or(children ...*Node) *Node {
	return combine(OpOr, children)
}

func combine(op Op, children []*Node) *Node {
	kept := make([]*Node, 0, len(children))
	for _, child := range children {
		if child == nil {
			continue
		}
		// Flatten same-operator nesting: And(And(a,b),c) -> And(a,b,c)
		if child.Op == op {
			kept = append(kept, child.Children...)
			continue
		}
		kept = append(kept, child)
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return &Node{Op: op, Children: kept}
}

// Terms returns all distinct terms referenced by the query, in first-seen order.
func (n *Node) Terms() []string {
	if n == nil {
		return nil
	}
	var terms []string
	seen := make(map[string]struct{})
	n.walkTerms(func(term string) {
		if _, ok := seen[term]; !ok {
			seen[term] = struct{}{}
			terms = append(terms, term)
		}
	})
	return terms
}

func (n *Node) walkTerms(visit func(string)) {
	if n.Op == OpTerm {
		visit(n.Term)
		return
	}
	for _, child := range n.Children {
		child.walkTerms(visit)
	}
}

// String renders the query in operator-symbol form, e.g. "hi & mom" or
// "(foo & bar) | baz". A nil node renders as the empty string.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	return n.render(OpOr)
}

// render writes the node, parenthesizing when the node binds looser than its
// context. Precedence: ! > & > |.
func (n *Node) render(parent Op) string {
	switch n.Op {
	case OpTerm:
		return n.Term
	case OpNot:
		// The parens added here are the only ones needed; render the child
		// in the loosest context so it does not wrap itself again.
		child := n.Children[0]
		rendered := child.render(OpOr)
		if child.Op != OpTerm {
			rendered = "(" + rendered + ")"
		}
		return "!" + rendered
	case OpAnd, OpOr:
		sep := " & "
		if n.Op == OpOr {
			sep = " | "
		}
		parts := make([]string, len(n.Children))
		for i, child := range n.Children {
			parts[i] = child.render(n.Op)
		}
		rendered := strings.Join(parts, sep)
		if precedence(n.Op) < precedence(parent) {
			rendered = "(" + rendered + ")"
		}
		return rendered
	}
	return ""
}

func precedence(op Op) int {
	switch op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpNot, OpTerm:
		return 3
	}
	return 0
}
