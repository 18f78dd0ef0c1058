package search

import (
	"math"

	"github.com/gcbaptista/go-query-engine/index"
	"github.com/gcbaptista/go-query-engine/store"
)

// Ranking parameters for the length-normalized term-frequency score.
const (
	k1 = 1.2  // Controls term frequency saturation
	b  = 0.75 // Controls how much effect document length has
)

// ranker computes document-length-normalized relevance scores for terms.
// A ranker is built per search request while the caller holds read locks;
// it caches document lengths so repeated terms don't rescan documents.
type ranker struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	searchable    []string

	docLengths   map[uint32]int
	avgDocLength float64
}

func newRanker(invIndex *index.InvertedIndex, docStore *store.DocumentStore, searchableFields []string) *ranker {
	r := &ranker{
		invertedIndex: invIndex,
		documentStore: docStore,
		searchable:    searchableFields,
		docLengths:    make(map[uint32]int, len(docStore.Docs)),
	}

	totalLength := 0
	for docID, doc := range docStore.Docs {
		length := fieldsLength(doc, searchableFields)
		r.docLengths[docID] = length
		totalLength += length
	}
	if len(docStore.Docs) > 0 {
		r.avgDocLength = float64(totalLength) / float64(len(docStore.Docs))
	}

	return r
}

// termScores returns the score contribution of a single term for every
// document containing it: IDF * (tf * (k1 + 1)) / (tf + k1 * (1 - b + b * (|d| / avgdl))).
func (r *ranker) termScores(term string) map[uint32]float64 {
	postingList, exists := r.invertedIndex.Index[term]
	if !exists {
		return nil
	}

	// Aggregate term frequency per document across fields.
	tfByDoc := make(map[uint32]float64)
	for _, entry := range postingList {
		tfByDoc[entry.DocID] += entry.TermFreq
	}

	idf := r.idf(len(tfByDoc))
	scores := make(map[uint32]float64, len(tfByDoc))
	for docID, tf := range tfByDoc {
		norm := 1.0
		if r.avgDocLength > 0 {
			norm = 1 - b + b*(float64(r.docLengths[docID])/r.avgDocLength)
		}
		scores[docID] = idf * (tf * (k1 + 1)) / (tf + k1*norm)
	}
	return scores
}

// idf computes a smoothed inverse document frequency:
// log(1 + (N - df + 0.5) / (df + 0.5)). The smoothing keeps the weight
// positive even for terms present in every document.
func (r *ranker) idf(docFreq int) float64 {
	totalDocs := float64(len(r.documentStore.Docs))
	if totalDocs == 0 || docFreq == 0 {
		return 0.0
	}
	df := float64(docFreq)
	return math.Log(1 + (totalDocs-df+0.5)/(df+0.5))
}

// fieldsLength counts the number of terms a document holds across the given fields.
func fieldsLength(doc map[string]interface{}, fields []string) int {
	total := 0
	for _, fieldName := range fields {
		if fieldValue, exists := doc[fieldName]; exists {
			total += valueLength(fieldValue)
		}
	}
	return total
}

// valueLength approximates the number of words in a field value.
func valueLength(fieldValue interface{}) int {
	switch v := fieldValue.(type) {
	case string:
		words := 0
		inWord := false
		for _, char := range v {
			if char == ' ' || char == '\t' || char == '\n' || char == '\r' {
				inWord = false
			} else if !inWord {
				words++
				inWord = true
			}
		}
		return words
	case []string:
		total := 0
		for _, str := range v {
			total += valueLength(str)
		}
		return total
	case []interface{}:
		total := 0
		for _, item := range v {
			if str, ok := item.(string); ok {
				total += valueLength(str)
			}
		}
		return total
	default:
		return 0
	}
}
