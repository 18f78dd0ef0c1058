// Package testutil provides shared helpers for tests that exercise a full
// engine instance.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-query-engine/config"
	"github.com/gcbaptista/go-query-engine/internal/engine"
	"github.com/gcbaptista/go-query-engine/model"
	"github.com/gcbaptista/go-query-engine/services"
)

// CreateTestEngine creates an engine over a per-test temporary directory.
func CreateTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.NewEngine(t.TempDir())
}

// CreateTestIndex creates a test index with default settings.
func CreateTestIndex(t *testing.T, eng *engine.Engine, indexName string) config.IndexSettings {
	t.Helper()

	settings := config.IndexSettings{
		Name:             indexName,
		SearchableFields: []string{"title", "content", "description"},
		FilterableFields: []string{"category", "year", "status"},
	}

	err := eng.CreateIndex(settings)
	require.NoError(t, err, "Failed to create test index")

	return settings
}

// AddTestDocuments adds a fixed set of movie documents to an index.
func AddTestDocuments(t *testing.T, eng *engine.Engine, indexName string) []model.Document {
	t.Helper()

	indexAccessor, err := eng.GetIndex(indexName)
	require.NoError(t, err, "Failed to get index accessor")

	docs := []model.Document{
		{
			"documentID":  "doc1",
			"title":       "The Matrix",
			"content":     "A computer programmer discovers reality is a simulation",
			"description": "Sci-fi action movie about virtual reality",
			"category":    "movie",
			"year":        1999,
			"status":      "published",
		},
		{
			"documentID":  "doc2",
			"title":       "Inception",
			"content":     "A thief enters people's dreams to steal secrets",
			"description": "Mind-bending thriller about dream manipulation",
			"category":    "movie",
			"year":        2010,
			"status":      "published",
		},
		{
			"documentID":  "doc3",
			"title":       "Interstellar",
			"content":     "Astronauts travel through a wormhole to save humanity",
			"description": "Space epic about time dilation and love",
			"category":    "movie",
			"year":        2014,
			"status":      "published",
		},
	}

	err = indexAccessor.AddDocuments(docs)
	require.NoError(t, err, "Failed to add test documents")

	return docs
}

// SearchTestCase represents a test case for search operations.
type SearchTestCase struct {
	Name          string
	Query         services.SearchQuery
	ExpectedCount int
	ExpectedFirst string // Expected first result document ID
	ValidateFunc  func(t *testing.T, results *services.SearchResult)
}

// RunSearchTests runs a suite of search tests against an index.
func RunSearchTests(t *testing.T, indexAccessor services.IndexAccessor, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			results, err := indexAccessor.Search(tt.Query)
			require.NoError(t, err, "Search should not fail")

			assert.Equal(t, tt.ExpectedCount, results.Total, "Result count should match")

			if tt.ExpectedFirst != "" && len(results.Hits) > 0 {
				firstDocID, exists := results.Hits[0].Document.GetDocumentID()
				require.True(t, exists, "First result should have document ID")
				assert.Equal(t, tt.ExpectedFirst, firstDocID, "First result should match expected")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, &results)
			}
		})
	}
}

// PhraseTestCase represents a test case for phrase search operations.
type PhraseTestCase struct {
	Name          string
	Query         services.PhraseQuery
	ExpectedCount int
}

// RunPhraseTests runs a suite of phrase search tests against an index.
func RunPhraseTests(t *testing.T, indexAccessor services.IndexAccessor, tests []PhraseTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			results, err := indexAccessor.PhraseSearch(tt.Query)
			require.NoError(t, err, "Phrase search should not fail")

			assert.Equal(t, tt.ExpectedCount, results.Total, "Result count should match")
		})
	}
}
