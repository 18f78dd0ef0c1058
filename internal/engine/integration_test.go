package engine_test

import (
	"testing"

	"github.com/gcbaptista/go-query-engine/internal/testutil"
	"github.com/gcbaptista/go-query-engine/services"
)

func TestEngineSearchSuite(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	testutil.CreateTestIndex(t, eng, "movies")
	testutil.AddTestDocuments(t, eng, "movies")

	indexAccessor, err := eng.GetIndex("movies")
	if err != nil {
		t.Fatalf("Failed to get index: %v", err)
	}

	testutil.RunSearchTests(t, indexAccessor, []testutil.SearchTestCase{
		{
			Name:          "single term across fields",
			Query:         services.SearchQuery{QueryString: "dream"},
			ExpectedCount: 1,
			ExpectedFirst: "doc2",
		},
		{
			Name:          "boolean keywords",
			Query:         services.SearchQuery{QueryString: "reality AND simulation"},
			ExpectedCount: 1,
			ExpectedFirst: "doc1",
		},
		{
			Name:          "OR across documents",
			Query:         services.SearchQuery{QueryString: "thief OR wormhole"},
			ExpectedCount: 2,
		},
		{
			Name:          "negation",
			Query:         services.SearchQuery{QueryString: "movie & !matrix"},
			ExpectedCount: 0,
		},
		{
			Name:          "no-query sentinel matches nothing",
			Query:         services.SearchQuery{QueryString: "AND OR NOT"},
			ExpectedCount: 0,
		},
		{
			Name: "filtered by year",
			Query: services.SearchQuery{
				QueryString: "space | reality",
				Filters: []services.FilterCondition{
					{Field: "year", Operator: "gte", Value: 2014},
				},
			},
			ExpectedCount: 1,
			ExpectedFirst: "doc3",
		},
	})

	testutil.RunPhraseTests(t, indexAccessor, []testutil.PhraseTestCase{
		{
			Name:          "phrase requires all terms under small collections",
			Query:         services.PhraseQuery{Phrase: "astronauts travel through a wormhole"},
			ExpectedCount: 1,
		},
		{
			Name:          "phrase with no searchable terms",
			Query:         services.PhraseQuery{Phrase: "the of and"},
			ExpectedCount: 0,
		},
	})
}
