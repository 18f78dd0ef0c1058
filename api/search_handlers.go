package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-query-engine/internal/errors"
	"github.com/gcbaptista/go-query-engine/model"
	"github.com/gcbaptista/go-query-engine/services"
)

// SearchRequest defines the structure for free-form boolean search queries.
// The query string accepts AND/OR/NOT keywords, &, |, ! symbols, and
// parentheses; malformed input is repaired rather than rejected.
type SearchRequest struct {
	Query    string                     `json:"query"`
	Filters  []services.FilterCondition `json:"filters,omitempty"`
	Page     int                        `json:"page"`
	PageSize int                        `json:"page_size"`
}

// PhraseSearchRequest defines the structure for natural-language phrase
// searches, which are expanded into boolean queries before execution.
type PhraseSearchRequest struct {
	Phrase   string                     `json:"phrase"`
	Filters  []services.FilterCondition `json:"filters,omitempty"`
	Page     int                        `json:"page"`
	PageSize int                        `json:"page_size"`
}

// SearchHandler handles boolean search requests to an index.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()
	indexName := c.Param("indexName")

	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "get index", err)
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}

	results, err := indexAccessor.Search(services.SearchQuery{
		QueryString: req.Query,
		Filters:     req.Filters,
		Page:        req.Page,
		PageSize:    req.PageSize,
	})
	if err != nil {
		SendSearchError(c, indexName, err)
		return
	}

	api.trackSearch(indexName, req.Query, "search", results, startTime)

	c.JSON(http.StatusOK, results)
}

// PhraseSearchHandler handles natural-language phrase search requests.
// Request Body: PhraseSearchRequest
func (api *API) PhraseSearchHandler(c *gin.Context) {
	startTime := time.Now()
	indexName := c.Param("indexName")

	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "get index", err)
		return
	}

	var req PhraseSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}

	results, err := indexAccessor.PhraseSearch(services.PhraseQuery{
		Phrase:   req.Phrase,
		Filters:  req.Filters,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		SendSearchError(c, indexName, err)
		return
	}

	api.trackSearch(indexName, req.Phrase, "phrase_search", results, startTime)

	c.JSON(http.StatusOK, results)
}

// trackSearch records a search event. An empty ParsedQuery means the input
// repaired to the no-query sentinel.
func (api *API) trackSearch(indexName, queryText, searchType string, results services.SearchResult, startTime time.Time) {
	api.analytics.Track(model.SearchEvent{
		IndexName:      indexName,
		Query:          queryText,
		SearchType:     searchType,
		EmptyQuery:     results.ParsedQuery == "",
		ResultCount:    results.Total,
		ResponseTimeMs: float64(time.Since(startTime).Microseconds()) / 1000.0,
	})
}
