package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-query-engine/config"
	"github.com/gcbaptista/go-query-engine/internal/analytics"
	"github.com/gcbaptista/go-query-engine/internal/engine"
	"github.com/gcbaptista/go-query-engine/model"
	"github.com/gcbaptista/go-query-engine/services"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *engine.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dataDir := t.TempDir()
	eng := engine.NewEngine(dataDir)
	analyticsService := analytics.NewService(dataDir)

	router := gin.New()
	SetupRoutes(router, eng, analyticsService)
	return router, eng
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, isString := body.(string); isString {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createMoviesIndex(t *testing.T, router *gin.Engine) {
	t.Helper()

	settings := config.IndexSettings{
		Name:             "movies",
		SearchableFields: []string{"title", "description"},
		FilterableFields: []string{"year", "genre"},
	}
	w := performRequest(router, "POST", "/indexes", settings)
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to create index: status %d, body %s", w.Code, w.Body.String())
	}
}

func addMovieDocuments(t *testing.T, router *gin.Engine) {
	t.Helper()

	docs := []model.Document{
		{
			"documentID":  "movie_1",
			"title":       "The Dark Knight",
			"description": "Batman faces the Joker in Gotham",
			"year":        2008,
			"genre":       "action",
		},
		{
			"documentID":  "movie_2",
			"title":       "Dark Waters",
			"description": "A lawyer uncovers a chemical company cover-up",
			"year":        2019,
			"genre":       "drama",
		},
		{
			"documentID":  "movie_3",
			"title":       "Knight and Day",
			"description": "A fugitive couple on a global adventure",
			"year":        2010,
			"genre":       "action",
		},
	}
	w := performRequest(router, "PUT", "/indexes/movies/documents", docs)
	if w.Code != http.StatusOK {
		t.Fatalf("Failed to add documents: status %d, body %s", w.Code, w.Body.String())
	}
}

func TestCreateIndexHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name: "valid index creation",
			requestBody: config.IndexSettings{
				Name:             "movies",
				SearchableFields: []string{"title", "description"},
				FilterableFields: []string{"year"},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid JSON",
			requestBody:    "{not json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing index name",
			requestBody: config.IndexSettings{
				SearchableFields: []string{"title"},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate index",
			requestBody: config.IndexSettings{
				Name:             "movies",
				SearchableFields: []string{"title"},
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/indexes", tt.requestBody)
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d (body: %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAddDocumentsHandler(t *testing.T) {
	router, _ := setupTestRouter(t)
	createMoviesIndex(t, router)

	tests := []struct {
		name           string
		path           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name: "valid single document",
			path: "/indexes/movies/documents",
			requestBody: model.Document{
				"documentID": "doc_1",
				"title":      "Inception",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "valid document array",
			path: "/indexes/movies/documents",
			requestBody: []model.Document{
				{"documentID": "doc_2", "title": "Memento"},
				{"documentID": "doc_3", "title": "Interstellar"},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing documentID",
			path:           "/indexes/movies/documents",
			requestBody:    model.Document{"title": "No ID"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "index not found",
			path:           "/indexes/nope/documents",
			requestBody:    model.Document{"documentID": "doc_4"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "PUT", tt.path, tt.requestBody)
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d (body: %s)", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestSearchHandler(t *testing.T) {
	router, _ := setupTestRouter(t)
	createMoviesIndex(t, router)
	addMovieDocuments(t, router)

	tests := []struct {
		name          string
		request       SearchRequest
		expectedTotal int
	}{
		{
			name:          "single term",
			request:       SearchRequest{Query: "dark"},
			expectedTotal: 2,
		},
		{
			name:          "boolean AND",
			request:       SearchRequest{Query: "dark AND knight"},
			expectedTotal: 1,
		},
		{
			name:          "boolean OR",
			request:       SearchRequest{Query: "batman | lawyer"},
			expectedTotal: 2,
		},
		{
			name:          "NOT excludes",
			request:       SearchRequest{Query: "dark & !joker"},
			expectedTotal: 1,
		},
		{
			name:          "malformed query is repaired",
			request:       SearchRequest{Query: "(dark AND"},
			expectedTotal: 2,
		},
		{
			name:          "operators only becomes no-query",
			request:       SearchRequest{Query: "AND OR"},
			expectedTotal: 0,
		},
		{
			name: "filtered search",
			request: SearchRequest{
				Query:   "dark",
				Filters: []services.FilterCondition{{Field: "genre", Operator: "eq", Value: "action"}},
			},
			expectedTotal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/indexes/movies/_search", tt.request)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d (body: %s)", w.Code, w.Body.String())
			}

			var result services.SearchResult
			if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}
			if result.Total != tt.expectedTotal {
				t.Errorf("Expected %d results, got %d (parsed query: %q)", tt.expectedTotal, result.Total, result.ParsedQuery)
			}
		})
	}
}

func TestSearchHandlerNoQuerySentinel(t *testing.T) {
	router, _ := setupTestRouter(t)
	createMoviesIndex(t, router)
	addMovieDocuments(t, router)

	w := performRequest(router, "POST", "/indexes/movies/_search", SearchRequest{Query: "!!! ()"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var result services.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.ParsedQuery != "" {
		t.Errorf("Expected empty parsed query, got %q", result.ParsedQuery)
	}
	if result.Total != 0 || len(result.Hits) != 0 {
		t.Errorf("Expected no hits, got total=%d hits=%d", result.Total, len(result.Hits))
	}
}

func TestPhraseSearchHandler(t *testing.T) {
	router, _ := setupTestRouter(t)
	createMoviesIndex(t, router)
	addMovieDocuments(t, router)

	w := performRequest(router, "POST", "/indexes/movies/_phrase_search", PhraseSearchRequest{
		Phrase: "batman faces the joker",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	var result services.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	// Three documents: below the candidate minimum, so every term must match.
	if result.Total != 1 {
		t.Errorf("Expected 1 result, got %d (parsed query: %q)", result.Total, result.ParsedQuery)
	}
}

func TestGetDocumentHandler(t *testing.T) {
	router, _ := setupTestRouter(t)
	createMoviesIndex(t, router)
	addMovieDocuments(t, router)

	w := performRequest(router, "GET", "/indexes/movies/documents/movie_1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var doc model.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if title, _ := doc["title"].(string); title != "The Dark Knight" {
		t.Errorf("Expected title 'The Dark Knight', got %q", title)
	}

	w = performRequest(router, "GET", "/indexes/movies/documents/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for missing document, got %d", w.Code)
	}
}

func TestDeleteDocumentHandler(t *testing.T) {
	router, _ := setupTestRouter(t)
	createMoviesIndex(t, router)
	addMovieDocuments(t, router)

	w := performRequest(router, "DELETE", "/indexes/movies/documents/movie_2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	// Deleted document no longer matches searches.
	w = performRequest(router, "POST", "/indexes/movies/_search", SearchRequest{Query: "lawyer"})
	var result services.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("Expected 0 results after deletion, got %d", result.Total)
	}

	w = performRequest(router, "DELETE", "/indexes/movies/documents/movie_2", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for already-deleted document, got %d", w.Code)
	}
}

func TestRenameIndexHandler(t *testing.T) {
	router, _ := setupTestRouter(t)
	createMoviesIndex(t, router)

	w := performRequest(router, "POST", "/indexes/movies/rename", RenameRequest{NewName: "films"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	w = performRequest(router, "GET", "/indexes/films", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected renamed index to exist, got status %d", w.Code)
	}
	w = performRequest(router, "GET", "/indexes/movies", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected old index name to be gone, got status %d", w.Code)
	}

	w = performRequest(router, "POST", "/indexes/films/rename", RenameRequest{NewName: "films"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for same-name rename, got %d", w.Code)
	}
}

func TestGetIndexStatsHandler(t *testing.T) {
	router, _ := setupTestRouter(t)
	createMoviesIndex(t, router)
	addMovieDocuments(t, router)

	w := performRequest(router, "GET", "/indexes/movies/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if count, _ := stats["document_count"].(float64); count != 3 {
		t.Errorf("Expected 3 documents, got %v", stats["document_count"])
	}
}

func TestHealthCheckHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
}

func TestGetAnalyticsHandler(t *testing.T) {
	router, _ := setupTestRouter(t)
	createMoviesIndex(t, router)
	addMovieDocuments(t, router)

	performRequest(router, "POST", "/indexes/movies/_search", SearchRequest{Query: "dark"})
	performRequest(router, "POST", "/indexes/movies/_search", SearchRequest{Query: "AND"})

	w := performRequest(router, "GET", "/analytics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var report model.AnalyticsReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if report.TotalSearches != 2 {
		t.Errorf("Expected 2 tracked searches, got %d", report.TotalSearches)
	}
	if report.EmptyQueryCount != 1 {
		t.Errorf("Expected 1 empty query, got %d", report.EmptyQueryCount)
	}
}
