package query

import (
	"reflect"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"nil node", nil, ""},
		{"single term", Term("foo"), "foo"},
		{"and", And(Term("hi"), Term("mom")), "hi & mom"},
		{"or", Or(Term("soup"), Term("salad")), "soup | salad"},
		{"not term", Not(Term("spam")), "!spam"},
		{"and binds tighter than or", Or(And(Term("a"), Term("b")), Term("c")), "a & b | c"},
		{"or inside and parenthesized", And(Or(Term("a"), Term("b")), Term("c")), "(a | b) & c"},
		{"not of group", Not(Or(Term("a"), Term("b"))), "!(a | b)"},
		{"not of and group", Not(And(Term("a"), Term("b"))), "!(a & b)"},
		{"not of group inside and", And(Not(Or(Term("a"), Term("b"))), Term("c")), "!(a | b) & c"},
		{"mixed", And(Term("foo"), Not(Term("bar"))), "foo & !bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCombinatorsFoldNil(t *testing.T) {
	if got := And(nil, Term("foo")); got.String() != "foo" {
		t.Errorf("And(nil, foo) = %q, want foo", got.String())
	}
	if got := Or(nil, nil); got != nil {
		t.Errorf("Or(nil, nil) = %v, want nil", got)
	}
	if got := Not(nil); got != nil {
		t.Errorf("Not(nil) = %v, want nil", got)
	}
	if got := And(); got != nil {
		t.Errorf("And() = %v, want nil", got)
	}
}

func TestCombinatorsFlatten(t *testing.T) {
	node := And(And(Term("a"), Term("b")), Term("c"))
	if len(node.Children) != 3 {
		t.Fatalf("expected 3 children after flattening, got %d", len(node.Children))
	}
	if node.String() != "a & b & c" {
		t.Errorf("String() = %q, want %q", node.String(), "a & b & c")
	}
}

func TestTerms(t *testing.T) {
	node := Or(And(Term("a"), Term("b")), And(Term("b"), Not(Term("c"))))
	got := node.Terms()
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %v, want %v", got, want)
	}

	var nilNode *Node
	if nilNode.Terms() != nil {
		t.Error("nil node Terms() should be nil")
	}
}
