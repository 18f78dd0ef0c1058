// Package phrase expands free-text phrases into boolean queries approximating
// fuzzy relevance search. Candidate terms are stemmed, terms that match too
// large a share of the candidate documents are excluded as low-information,
// and the survivors are assembled into an OR-of-AND-subsets expression that
// rewards specificity without requiring every term to match. True TF-IDF
// ranking is not computed here; the search service's own relevance ranking
// orders the results.
package phrase

import (
	"github.com/gcbaptista/go-query-engine/index"
	"github.com/gcbaptista/go-query-engine/internal/analyzer"
	"github.com/gcbaptista/go-query-engine/internal/query"
	"github.com/gcbaptista/go-query-engine/model"
	"github.com/gcbaptista/go-query-engine/store"
)

const (
	// DefaultMinCandidates is the collection size below which frequency
	// filtering is skipped entirely; statistics over a handful of rows are
	// meaningless.
	DefaultMinCandidates = 5

	// DefaultFrequencyThreshold excludes a term matching at least this share
	// of the candidate documents.
	DefaultFrequencyThreshold = 0.5

	// looseTermLimit is the term count at or below which the expansion stays a
	// simple OR (loose, high-recall mode) instead of AND subsets.
	looseTermLimit = 3
)

// Expander derives boolean queries from natural-language phrases using
// document frequencies from an index.
//
// Expander methods assume the caller holds read locks on the inverted index
// and document store for the duration of the call; expansion is part of a
// larger search request that already holds them.
type Expander struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	analyzer      *analyzer.Analyzer

	MinCandidates      int
	FrequencyThreshold float64
}

// NewExpander creates an Expander with the default thresholds.
func NewExpander(invIndex *index.InvertedIndex, docStore *store.DocumentStore, an *analyzer.Analyzer) *Expander {
	return &Expander{
		invertedIndex:      invIndex,
		documentStore:      docStore,
		analyzer:           an,
		MinCandidates:      DefaultMinCandidates,
		FrequencyThreshold: DefaultFrequencyThreshold,
	}
}

// Expand turns a free-text phrase into a boolean query. The optional match
// predicate restricts the candidate collection (nil means every document).
// It returns nil, the no-query sentinel, when no searchable terms remain.
func (e *Expander) Expand(phraseText string, match func(model.Document) bool) *query.Node {
	terms := dedupe(e.analyzer.Analyze(phraseText))
	if len(terms) == 0 {
		return nil
	}

	total := e.countCandidates(match)

	// Small collections make frequency statistics meaningless: require every
	// term instead of excluding any.
	if total < e.MinCandidates {
		return andOfTerms(terms)
	}

	kept := make([]string, 0, len(terms))
	for _, term := range terms {
		df := e.countTermMatches(term, match)
		if float64(df) >= e.FrequencyThreshold*float64(total) {
			continue
		}
		kept = append(kept, term)
	}

	switch {
	case len(kept) == 0:
		return nil
	case len(kept) <= looseTermLimit:
		nodes := make([]*query.Node, len(kept))
		for i, term := range kept {
			nodes[i] = query.Term(term)
		}
		return query.Or(nodes...)
	}

	// OR of every (n-1)-sized AND subset: most terms must match, but not
	// necessarily all.
	subsets := make([]*query.Node, 0, len(kept))
	for skip := range kept {
		subset := make([]*query.Node, 0, len(kept)-1)
		for i, term := range kept {
			if i == skip {
				continue
			}
			subset = append(subset, query.Term(term))
		}
		subsets = append(subsets, query.And(subset...))
	}
	return query.Or(subsets...)
}

// countCandidates counts documents satisfying the constraint predicate.
func (e *Expander) countCandidates(match func(model.Document) bool) int {
	if match == nil {
		return len(e.documentStore.Docs)
	}
	count := 0
	for _, doc := range e.documentStore.Docs {
		if match(doc) {
			count++
		}
	}
	return count
}

// countTermMatches counts distinct documents containing the term, subject to
// the same constraint predicate.
func (e *Expander) countTermMatches(term string, match func(model.Document) bool) int {
	postingList, exists := e.invertedIndex.Index[term]
	if !exists {
		return 0
	}

	seen := make(map[uint32]struct{})
	for _, entry := range postingList {
		if _, dup := seen[entry.DocID]; dup {
			continue
		}
		if match != nil {
			doc, ok := e.documentStore.Docs[entry.DocID]
			if !ok || !match(doc) {
				continue
			}
		}
		seen[entry.DocID] = struct{}{}
	}
	return len(seen)
}

func andOfTerms(terms []string) *query.Node {
	nodes := make([]*query.Node, len(terms))
	for i, term := range terms {
		nodes[i] = query.Term(term)
	}
	return query.And(nodes...)
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}
