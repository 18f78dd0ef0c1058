package analyzer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", nil},
		{"simple words", "hello world", []string{"hello", "world"}},
		{"with punctuation", "hello, world!", []string{"hello", "world"}},
		{"with numbers", "item123 test", []string{"item123", "test"}},
		{"hyphenated", "state-of-the-art", []string{"state", "of", "the", "art"}},
		{"only symbols", "!@#$%^", nil},
		{"unicode letters", "café olé", []string{"café", "olé"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty string", "", []string{}},
		{"lowercases", "Hello World", []string{"hello", "world"}},
		{"removes stop words", "the quick brown fox", []string{"quick", "brown", "fox"}},
		{"stems word forms", "administrators searching", []string{"administr", "search"}},
		{"running stems to run", "running runs", []string{"run", "run"}},
		{"only stop words", "the of and", []string{}},
		{"punctuation stripped", "cool! stuff?", []string{"cool", "stuff"}},
	}

	an := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := an.Analyze(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Analyze(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestAnalyzeDisabledStages(t *testing.T) {
	keepStops := &Analyzer{KeepStopWords: true, NoStemming: true}
	got := keepStops.Analyze("the administrators")
	want := []string{"the", "administrators"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze with disabled stages = %v, want %v", got, want)
	}
}

func TestStem(t *testing.T) {
	an := New()

	if got := an.Stem("Administrators"); got != "administr" {
		t.Errorf("Stem(Administrators) = %q, want %q", got, "administr")
	}
	// Stop words stem to nothing, mirroring the engine's "no searchable terms" case.
	if got := an.Stem("the"); got != "" {
		t.Errorf("Stem(the) = %q, want empty", got)
	}
}

func TestIsStopWord(t *testing.T) {
	if !IsStopWord("The") {
		t.Error("IsStopWord(The) = false, want true")
	}
	if IsStopWord("fox") {
		t.Error("IsStopWord(fox) = true, want false")
	}
}
