package ftq

import (
	"testing"

	"github.com/gcbaptista/go-query-engine/internal/analyzer"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // Render form of the normalized stream
	}{
		{"empty string", "", ""},
		{"whitespace only", "   ", ""},
		{"lowercases words", "Hello World", "hello world"},
		{"collapses whitespace", "hi \t  mom", "hi mom"},
		{"AND keyword", "hi AND mom", "hi & mom"},
		{"OR keyword", "soup OR salad", "soup | salad"},
		{"NOT keyword", "fresh NOT frozen", "fresh !frozen"},
		{"lowercase keywords", "hi and mom", "hi & mom"},
		{"trailing bang is punctuation", "cool!", "cool"},
		{"prefix bang is an operator", "!cool", "!cool"},
		{"standalone ampersand", "hi & mom", "hi & mom"},
		{"standalone pipe", "hi | mom", "hi | mom"},
		{"embedded ampersand splits words", "AT&T", "at t"},
		{"leading hyphen before word dropped", "-fresh", "fresh"},
		{"lone hyphen", "-", ""},
		{"trailing hyphen dropped", "fresh-", "fresh"},
		{"compound term preserved", "state-of-the-art", "state-of-the-art"},
		{"negative number preserved", "-5", "-5"},
		{"hyphen between numbers preserved", "1-2", "1-2"},
		{"parens", "(foo bar)", "( foo bar )"},
		{"stray punctuation dropped", "(foo .", "( foo"},
		{"mixed punctuation", "cool!?? stuff...", "cool stuff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(Normalize(tt.input))
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRepair(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // Render form after Normalize + Repair; "" means the nil sentinel
	}{
		{"empty", "", ""},
		{"bare AND", "AND", ""},
		{"bare hyphen", "-", ""},
		{"only punctuation", ".,;:!", ""},
		{"left operator wins in a run", "hi AND OR mom", "hi & mom"},
		{"left operator wins reversed", "hi OR AND hello", "hi | hello"},
		{"leading operator dropped", "AND hi mom", "hi & mom"},
		{"trailing operator dropped", "hi mom AND", "hi & mom"},
		{"implicit and between words", "hi mom", "hi & mom"},
		{"unclosed paren closed at end", "(foo bar", "( foo & bar )"},
		{"excess closer dropped", "foo bar)", "foo & bar"},
		{"trailing lone punctuation", "(foo .", "( foo )"},
		{"empty group removed", "() foo", "foo"},
		{"nested empty groups removed", "(()) foo", "foo"},
		{"operator inside group boundary dropped", "(AND foo)", "( foo )"},
		{"operator before closer dropped", "(foo AND)", "( foo )"},
		{"not keeps its operand", "fresh NOT frozen", "fresh & !frozen"},
		{"dangling not dropped", "fresh NOT", "fresh"},
		{"not before group", "NOT (a OR b) c", "!( a | b ) & c"},
		{"adjacent groups joined", "(a)(b)", "( a ) & ( b )"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(Repair(Normalize(tt.input)))
			if got != tt.want {
				t.Errorf("Repair(Normalize(%q)) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestRepairInvariants feeds degenerate inputs through the pipeline and checks
// the structural guarantees the compiler relies on: balanced parentheses,
// every binary operator with operands on both sides, every NOT followed by an
// operand.
func TestRepairInvariants(t *testing.T) {
	inputs := []string{
		"", " ", "AND", "OR OR OR", "((((", "))))", ")(", "(()",
		"hi AND OR mom", "AND hi AND", "!!!", "!", "- - -", "a ! b",
		"(a OR) AND (OR b)", "a & | b", "x NOT", "NOT NOT x",
		"cool!!! stuff???", "((a)", "a))", "& & &", "a (b", "a) b",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tokens := Repair(Normalize(input))
			checkWellFormed(t, input, tokens)
		})
	}
}

func checkWellFormed(t *testing.T, input string, tokens []Token) {
	t.Helper()

	depth := 0
	for i, tok := range tokens {
		switch tok.Kind {
		case KindOpen:
			depth++
		case KindClose:
			depth--
			if depth < 0 {
				t.Fatalf("input %q: unmatched closer at token %d in %q", input, i, Render(tokens))
			}
		case KindAnd, KindOr:
			if i == 0 || i == len(tokens)-1 {
				t.Fatalf("input %q: binary operator at stream edge in %q", input, Render(tokens))
			}
			prev, next := tokens[i-1].Kind, tokens[i+1].Kind
			if prev != KindTerm && prev != KindClose {
				t.Fatalf("input %q: binary operator without left operand in %q", input, Render(tokens))
			}
			if next != KindTerm && next != KindOpen && next != KindNot {
				t.Fatalf("input %q: binary operator without right operand in %q", input, Render(tokens))
			}
		case KindNot:
			if i == len(tokens)-1 {
				t.Fatalf("input %q: dangling NOT in %q", input, Render(tokens))
			}
			next := tokens[i+1].Kind
			if next != KindTerm && next != KindOpen {
				t.Fatalf("input %q: NOT without operand in %q", input, Render(tokens))
			}
		}
	}
	if depth != 0 {
		t.Fatalf("input %q: unbalanced parentheses in %q", input, Render(tokens))
	}
}

// TestNormalizeIdempotent checks that re-normalizing an already repaired,
// balanced expression returns it unchanged (mod whitespace).
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"hi AND OR mom", "soup OR salad", "(a OR b) AND c", "fresh NOT frozen",
		"hi mom", "state-of-the-art design", "(foo .", "complex (nested OR query) AND done",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once := Repair(Normalize(input))
			rendered := Render(once)
			twice := Repair(Normalize(rendered))
			if Render(twice) != rendered {
				t.Errorf("pipeline not idempotent: %q -> %q -> %q", input, rendered, Render(twice))
			}
		})
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // String() of the compiled query; "" means the nil sentinel
	}{
		{"left operator wins", "hi AND OR mom", "hi & mom"},
		{"trailing lone punctuation dropped", "(foo .", "foo"},
		{"blank is sentinel", " ", ""},
		{"bare AND is sentinel", "AND", ""},
		{"bare hyphen is sentinel", "-", ""},
		{"stop words fold away", "the foo", "foo"},
		{"all stop words is sentinel", "the of that", ""},
		{"or query", "soup OR salad", "soup | salad"},
		{"not query", "fresh NOT frozen", "fresh & !frozen"},
		{"grouped query", "(foo OR bar) AND baz", "(foo | bar) & baz"},
		{"implicit and", "hello world", "hello & world"},
		{"compound term conjoined", "state-of-the-art", "state & art"},
		{"stemmed terms", "administrators searching", "administr & search"},
	}

	an := analyzer.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := Compile(tt.input, an)
			got := node.String()
			if got != tt.want {
				t.Errorf("Compile(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestCompileRoundTrip checks that a query built purely from single lowercase
// alphabetic words reproduces exactly those words, stemmed.
func TestCompileRoundTrip(t *testing.T) {
	an := analyzer.New()

	node := Compile("administrators searching databases", an)
	if node == nil {
		t.Fatal("expected a compiled query, got the sentinel")
	}
	want := []string{"administr", "search", "databas"}
	got := node.Terms()
	if len(got) != len(want) {
		t.Fatalf("Terms() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Terms()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCompileNeverPanics(t *testing.T) {
	an := analyzer.New()
	inputs := []string{
		"", ")(", "((((", "AND OR NOT", "!&|", "---", "a AND (b OR (c AND (d",
		"!!!x", "((a | b) & !c", "cool!?!? (stuff",
	}
	for _, input := range inputs {
		// Compile is total: any input yields a query or the sentinel.
		_ = Compile(input, an)
	}
}
