package search

import (
	"fmt"
	"sort"
	"time"

	"github.com/gcbaptista/go-query-engine/config"
	"github.com/gcbaptista/go-query-engine/index"
	"github.com/gcbaptista/go-query-engine/internal/analyzer"
	"github.com/gcbaptista/go-query-engine/internal/ftq"
	"github.com/gcbaptista/go-query-engine/internal/phrase"
	"github.com/gcbaptista/go-query-engine/internal/query"
	"github.com/gcbaptista/go-query-engine/model"
	"github.com/gcbaptista/go-query-engine/services"
	"github.com/gcbaptista/go-query-engine/store"
	"github.com/google/uuid"
)

// Service implements the search logic for a single index.
// It fulfills the services.Searcher interface: free-form query strings are
// compiled into boolean queries (ftq pipeline) and evaluated against the
// inverted index; phrases go through natural-language expansion first.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	settings      *config.IndexSettings
	analyzer      *analyzer.Analyzer
	expander      *phrase.Expander
}

// NewService creates a new search Service.
func NewService(invIndex *index.InvertedIndex, docStore *store.DocumentStore, settings *config.IndexSettings) (*Service, error) {
	if invIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if docStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	an := &analyzer.Analyzer{
		KeepStopWords: settings.DisableStopWords,
		NoStemming:    settings.DisableStemming,
	}

	expander := phrase.NewExpander(invIndex, docStore, an)
	if settings.MinCandidates > 0 {
		expander.MinCandidates = settings.MinCandidates
	}
	if settings.FrequencyThreshold > 0 {
		expander.FrequencyThreshold = settings.FrequencyThreshold
	}

	return &Service{
		invertedIndex: invIndex,
		documentStore: docStore,
		settings:      settings,
		analyzer:      an,
		expander:      expander,
	}, nil
}

const defaultPageSize = 10

// Search compiles the query string into a boolean query and executes it.
// Degenerate input is not an error: a query that repairs to the no-query
// sentinel returns an empty result ("match nothing").
func (s *Service) Search(q services.SearchQuery) (services.SearchResult, error) {
	startTime := time.Now()
	page, pageSize := normalizePaging(q.Page, q.PageSize)

	node := ftq.Compile(q.QueryString, s.analyzer)

	s.invertedIndex.Mu.RLock()
	s.documentStore.Mu.RLock()
	defer s.invertedIndex.Mu.RUnlock()
	defer s.documentStore.Mu.RUnlock()

	return s.execute(node, q.Filters, page, pageSize, startTime), nil
}

// PhraseSearch expands a natural-language phrase into a boolean query and
// executes it. The filter conditions both constrain the result set and define
// the candidate collection used for frequency-based term exclusion.
func (s *Service) PhraseSearch(q services.PhraseQuery) (services.SearchResult, error) {
	startTime := time.Now()
	page, pageSize := normalizePaging(q.Page, q.PageSize)

	s.invertedIndex.Mu.RLock()
	s.documentStore.Mu.RLock()
	defer s.invertedIndex.Mu.RUnlock()
	defer s.documentStore.Mu.RUnlock()

	var match func(model.Document) bool
	if len(q.Filters) > 0 {
		filters := q.Filters
		match = func(doc model.Document) bool {
			return s.matchesFilters(doc, filters)
		}
	}

	node := s.expander.Expand(q.Phrase, match)

	return s.execute(node, q.Filters, page, pageSize, startTime), nil
}

// execute evaluates a compiled query and assembles the ranked, paginated
// result. Caller must hold read locks on the index and store. A nil node is
// the no-query sentinel and matches nothing.
func (s *Service) execute(node *query.Node, filters []services.FilterCondition, page, pageSize int, startTime time.Time) services.SearchResult {
	result := services.SearchResult{
		Hits:        []services.HitResult{},
		Page:        page,
		PageSize:    pageSize,
		QueryID:     uuid.New().String(),
		ParsedQuery: node.String(),
	}

	if node == nil {
		result.Took = time.Since(startTime).Milliseconds()
		return result
	}

	r := newRanker(s.invertedIndex, s.documentStore, s.settings.SearchableFields)
	scores := s.evaluate(node, r)

	type scoredDoc struct {
		docID uint32
		score float64
	}
	candidates := make([]scoredDoc, 0, len(scores))
	for docID, score := range scores {
		doc, found := s.documentStore.Docs[docID]
		if !found {
			continue
		}
		if !s.matchesFilters(doc, filters) {
			continue
		}
		candidates = append(candidates, scoredDoc{docID: docID, score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].docID < candidates[j].docID
	})

	result.Total = len(candidates)

	start := (page - 1) * pageSize
	if start < len(candidates) {
		end := start + pageSize
		if end > len(candidates) {
			end = len(candidates)
		}
		for _, cand := range candidates[start:end] {
			result.Hits = append(result.Hits, services.HitResult{
				Document: s.documentStore.Docs[cand.docID],
				Score:    cand.score,
			})
		}
	}

	result.Took = time.Since(startTime).Milliseconds()
	return result
}

// evaluate computes the matching documents and their raw scores for a query
// node. Set semantics: AND intersects, OR unions, NOT complements against the
// whole store. Scores accumulate from term nodes only; a NOT branch
// contributes matches but no score.
func (s *Service) evaluate(node *query.Node, r *ranker) map[uint32]float64 {
	switch node.Op {
	case query.OpTerm:
		scores := r.termScores(node.Term)
		if scores == nil {
			return map[uint32]float64{}
		}
		return scores

	case query.OpAnd:
		result := s.evaluate(node.Children[0], r)
		for _, child := range node.Children[1:] {
			childScores := s.evaluate(child, r)
			intersected := make(map[uint32]float64, len(result))
			for docID, score := range result {
				if childScore, ok := childScores[docID]; ok {
					intersected[docID] = score + childScore
				}
			}
			result = intersected
			if len(result) == 0 {
				break
			}
		}
		return result

	case query.OpOr:
		result := make(map[uint32]float64)
		for _, child := range node.Children {
			for docID, score := range s.evaluate(child, r) {
				result[docID] += score
			}
		}
		return result

	case query.OpNot:
		excluded := s.evaluate(node.Children[0], r)
		result := make(map[uint32]float64, len(s.documentStore.Docs))
		for docID := range s.documentStore.Docs {
			if _, hit := excluded[docID]; !hit {
				result[docID] = 0
			}
		}
		return result
	}

	return map[uint32]float64{}
}

func normalizePaging(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}
