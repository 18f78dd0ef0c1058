package services

import (
	"github.com/gcbaptista/go-query-engine/config"
	"github.com/gcbaptista/go-query-engine/model"
)

// HitResult represents a single document in the search results,
// including the document itself and its relevance score.
type HitResult struct {
	Document model.Document `json:"document"`
	Score    float64        `json:"score"` // Document-length-normalized relevance score
}

type SearchResult struct {
	Hits        []HitResult `json:"hits"`
	Total       int         `json:"total"`
	Page        int         `json:"page"`
	PageSize    int         `json:"page_size"`
	Took        int64       `json:"took"`         // milliseconds
	QueryID     string      `json:"query_id"`     // unique UUID for this search query
	ParsedQuery string      `json:"parsed_query"` // compiled boolean expression, "" when the query repaired to the no-query sentinel
}

// FilterCondition represents a single filter condition applied before matching.
type FilterCondition struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"` // "eq", "ne", "gt", "gte", "lt", "lte", "contains"
	Value    interface{} `json:"value"`
}

type SearchQuery struct {
	QueryString string            `json:"query"`
	Filters     []FilterCondition `json:"filters,omitempty"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
}

// PhraseQuery represents a natural-language phrase search request. The phrase is
// expanded into a boolean query (frequency-filtered OR-of-AND subsets) before execution.
type PhraseQuery struct {
	Phrase   string            `json:"phrase"`
	Filters  []FilterCondition `json:"filters,omitempty"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// Indexer defines operations for adding data to an index
type Indexer interface {
	AddDocuments(docs []model.Document) error
	DeleteAllDocuments() error
	DeleteDocument(docID string) error
}

// Searcher defines operations for querying an index
type Searcher interface {
	Search(query SearchQuery) (SearchResult, error)
	PhraseSearch(query PhraseQuery) (SearchResult, error)
}

// IndexManager manages the lifecycle of indices
type IndexManager interface {
	CreateIndex(settings config.IndexSettings) error
	GetIndex(name string) (IndexAccessor, error) // IndexAccessor combines Indexer and Searcher
	GetIndexSettings(name string) (config.IndexSettings, error)
	UpdateIndexSettings(name string, settings config.IndexSettings) error
	RenameIndex(oldName, newName string) error
	DeleteIndex(name string) error
	ListIndexes() []string
	PersistIndexData(indexName string) error
}

type IndexAccessor interface {
	Indexer
	Searcher
	Settings() config.IndexSettings
}
