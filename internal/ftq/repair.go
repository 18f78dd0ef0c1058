package ftq

// Repair fixes up a normalized token stream so it is safe to hand to the query
// compiler:
//
//   - parentheses are balanced: excess closers are dropped from the front,
//     excess openers are closed at the end;
//   - no two boolean operators are adjacent: in a run of binary operators the
//     first one wins and the rest are discarded ("hi AND OR mom" -> "hi & mom");
//   - binary operators dangling at the start or end of the stream, or directly
//     inside a group boundary, are dropped;
//   - "!" without an operand directly after it is dropped;
//   - empty groups are removed;
//   - an implicit "&" is inserted between adjacent operands, so "hi mom" means
//     "hi & mom".
//
// A stream with no terms left repairs to nil, the no-query sentinel, which
// callers must treat as "match nothing".
func Repair(tokens []Token) []Token {
	tokens = balanceParens(tokens)

	// Operator fixes can cascade (dropping one operator may strand another),
	// so iterate to a fixpoint. Each pass removes at least one token, bounding
	// the loop by the stream length.
	for {
		fixed := repairPass(tokens)
		if len(fixed) == len(tokens) {
			tokens = fixed
			break
		}
		tokens = fixed
	}

	if !hasTerm(tokens) {
		return nil
	}

	return insertImplicitAnd(tokens)
}

// balanceParens drops closers that have no matching opener and closes any
// openers left dangling at the end.
func balanceParens(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	depth := 0
	for _, t := range tokens {
		switch t.Kind {
		case KindOpen:
			depth++
		case KindClose:
			if depth == 0 {
				continue
			}
			depth--
		}
		out = append(out, t)
	}
	for ; depth > 0; depth-- {
		out = append(out, Token{Kind: KindClose})
	}
	return out
}

// repairPass applies one round of operator and empty-group fixes.
func repairPass(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]

		switch t.Kind {
		case KindAnd, KindOr:
			// Left operator wins: a binary operator directly after another
			// operator is part of a run and is discarded.
			if len(out) == 0 {
				continue
			}
			switch out[len(out)-1].Kind {
			case KindOpen, KindAnd, KindOr, KindNot:
				continue
			}
			// Dangling before a group end or the end of stream.
			if i+1 >= len(tokens) || tokens[i+1].Kind == KindClose {
				continue
			}

		case KindNot:
			// NOT must be followed directly by an operand.
			if i+1 >= len(tokens) {
				continue
			}
			next := tokens[i+1].Kind
			if next != KindTerm && next != KindOpen {
				continue
			}

		case KindOpen:
			// Empty group.
			if i+1 < len(tokens) && tokens[i+1].Kind == KindClose {
				i++
				continue
			}
		}

		out = append(out, t)
	}

	return out
}

func hasTerm(tokens []Token) bool {
	for _, t := range tokens {
		if t.Kind == KindTerm {
			return true
		}
	}
	return false
}

// insertImplicitAnd places "&" between adjacent operands so that every binary
// operator in the final stream has operands on both sides.
func insertImplicitAnd(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens)+4)
	for _, t := range tokens {
		if len(out) > 0 {
			prev := out[len(out)-1].Kind
			prevIsOperandEnd := prev == KindTerm || prev == KindClose
			startsNewOperand := t.Kind == KindTerm || t.Kind == KindOpen || t.Kind == KindNot
			if prevIsOperandEnd && startsNewOperand {
				out = append(out, Token{Kind: KindAnd})
			}
		}
		out = append(out, t)
	}
	return out
}
