package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-query-engine/config"
	"github.com/gcbaptista/go-query-engine/internal/engine"
	internalErrors "github.com/gcbaptista/go-query-engine/internal/errors"
)

// CreateIndexHandler handles the request to create a new index.
// Request Body: config.IndexSettings
func (api *API) CreateIndexHandler(c *gin.Context) {
	var settings config.IndexSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateIndexSettings(&settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.CreateIndex(settings); err != nil {
		if errors.Is(err, internalErrors.ErrIndexAlreadyExists) {
			SendIndexExistsError(c, settings.Name)
			return
		}
		if errors.Is(err, internalErrors.ErrInvalidInput) {
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
			return
		}
		SendInternalError(c, "create index", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Index '" + settings.Name + "' created successfully"})
}

// ListIndexesHandler lists the names of all indexes.
func (api *API) ListIndexesHandler(c *gin.Context) {
	names := api.engine.ListIndexes()
	c.JSON(http.StatusOK, gin.H{"indexes": names, "count": len(names)})
}

// GetIndexHandler retrieves details about a specific index (its settings).
func (api *API) GetIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}
	c.JSON(http.StatusOK, indexAccessor.Settings())
}

// DeleteIndexHandler handles deleting an index.
func (api *API) DeleteIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	if err := api.engine.DeleteIndex(indexName); err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "delete index", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Index '" + indexName + "' deleted successfully"})
}

// UpdateIndexSettingsHandler updates the settings of an existing index.
// Indexing-related changes trigger a synchronous reindex of all documents.
func (api *API) UpdateIndexSettingsHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	if result := ValidateIndexName(indexName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	var settings config.IndexSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := api.engine.UpdateIndexSettings(indexName, settings); err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		if errors.Is(err, internalErrors.ErrInvalidInput) {
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
			return
		}
		SendInternalError(c, "update index settings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings for index '" + indexName + "' updated successfully"})
}

// RenameRequest defines the body for index rename requests.
type RenameRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// RenameIndexHandler renames an existing index.
func (api *API) RenameIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateRenameRequest(indexName, req.NewName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.RenameIndex(indexName, req.NewName); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrIndexNotFound):
			SendIndexNotFoundError(c, indexName)
		case errors.Is(err, internalErrors.ErrIndexAlreadyExists):
			SendIndexExistsError(c, req.NewName)
		case errors.Is(err, internalErrors.ErrSameName):
			SendSameNameError(c, req.NewName)
		default:
			SendInternalError(c, "rename index", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Index '" + indexName + "' renamed to '" + req.NewName + "'"})
}

// GetIndexStatsHandler returns document and term counts for an index.
func (api *API) GetIndexStatsHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	instance, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	documentCount := 0
	termCount := 0
	if engineInstance, ok := instance.(*engine.IndexInstance); ok {
		engineInstance.DocumentStore.Mu.RLock()
		documentCount = len(engineInstance.DocumentStore.Docs)
		engineInstance.DocumentStore.Mu.RUnlock()

		engineInstance.InvertedIndex.Mu.RLock()
		termCount = len(engineInstance.InvertedIndex.Index)
		engineInstance.InvertedIndex.Mu.RUnlock()
	}

	c.JSON(http.StatusOK, gin.H{
		"index_name":     indexName,
		"document_count": documentCount,
		"term_count":     termCount,
	})
}
