package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-query-engine/internal/engine"
	internalErrors "github.com/gcbaptista/go-query-engine/internal/errors"
	"github.com/gcbaptista/go-query-engine/model"
)

// AddDocumentsHandler handles adding/updating documents in an index.
// Accepts a single document object or an array of documents.
func (api *API) AddDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	var rawData interface{}
	if err := c.ShouldBindJSON(&rawData); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	var docs []model.Document
	if dataSlice, isSlice := rawData.([]interface{}); isSlice {
		docs = make([]model.Document, len(dataSlice))
		for i, item := range dataSlice {
			docMap, isMap := item.(map[string]interface{})
			if !isMap {
				SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest,
					fmt.Sprintf("Document at index %d is not a valid object", i))
				return
			}
			docs[i] = docMap
		}
	} else if docMap, isMap := rawData.(map[string]interface{}); isMap {
		docs = []model.Document{docMap}
	} else {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest,
			"Invalid request body. Expecting a document object or an array of documents")
		return
	}

	if result := ValidateDocuments(docs); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	// Normalize documentIDs so the indexing service sees clean strings.
	for i := range docs {
		if docID, ok := docs[i]["documentID"].(string); ok {
			docs[i]["documentID"] = strings.TrimSpace(docID)
		}
	}

	if err := indexAccessor.AddDocuments(docs); err != nil {
		SendIndexingError(c, "add documents", err)
		return
	}

	if err := api.engine.PersistIndexData(indexName); err != nil {
		log.Printf("Warning: Failed to persist index '%s' after adding documents: %v", indexName, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d document(s) added/updated in index '%s'", len(docs), indexName)})
}

// DeleteAllDocumentsHandler handles the request to delete all documents from an index.
func (api *API) DeleteAllDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	if err := indexAccessor.DeleteAllDocuments(); err != nil {
		SendIndexingError(c, "delete all documents", err)
		return
	}

	if err := api.engine.PersistIndexData(indexName); err != nil {
		log.Printf("Warning: Failed to persist index '%s' after deleting documents: %v", indexName, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "All documents deleted from index '" + indexName + "'"})
}

// DocumentListRequest defines the structure for document listing requests
type DocumentListRequest struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// GetDocumentsHandler lists documents in an index with pagination.
// Documents are ordered by their external ID for stable paging.
func (api *API) GetDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	instance, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	var req DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "Invalid query parameters: "+err.Error())
		return
	}
	page, pageSize, _ := ValidatePagination(req.Page, req.PageSize)

	documents := []model.Document{}
	totalCount := 0

	if engineInstance, ok := instance.(*engine.IndexInstance); ok {
		engineInstance.DocumentStore.Mu.RLock()

		externalIDs := make([]string, 0, len(engineInstance.DocumentStore.ExternalIDtoInternalID))
		for externalID := range engineInstance.DocumentStore.ExternalIDtoInternalID {
			externalIDs = append(externalIDs, externalID)
		}
		sort.Strings(externalIDs)
		totalCount = len(externalIDs)

		startIndex := (page - 1) * pageSize
		if startIndex < totalCount {
			endIndex := startIndex + pageSize
			if endIndex > totalCount {
				endIndex = totalCount
			}
			for _, externalID := range externalIDs[startIndex:endIndex] {
				internalID := engineInstance.DocumentStore.ExternalIDtoInternalID[externalID]
				if doc, found := engineInstance.DocumentStore.Docs[internalID]; found {
					documents = append(documents, doc)
				}
			}
		}

		engineInstance.DocumentStore.Mu.RUnlock()
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
		"pages":     (totalCount + pageSize - 1) / pageSize,
	})
}

// GetDocumentHandler retrieves a specific document by ID.
func (api *API) GetDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	instance, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	var document model.Document
	found := false

	if engineInstance, ok := instance.(*engine.IndexInstance); ok {
		engineInstance.DocumentStore.Mu.RLock()
		if internalID, exists := engineInstance.DocumentStore.ExternalIDtoInternalID[documentID]; exists {
			document, found = engineInstance.DocumentStore.Docs[internalID]
		}
		engineInstance.DocumentStore.Mu.RUnlock()
	}

	if !found {
		SendDocumentNotFoundError(c, documentID, indexName)
		return
	}

	c.JSON(http.StatusOK, document)
}

// DeleteDocumentHandler deletes a specific document by ID.
func (api *API) DeleteDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := indexAccessor.DeleteDocument(documentID); err != nil {
		if errors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, documentID, indexName)
			return
		}
		SendIndexingError(c, "delete document", err)
		return
	}

	if err := api.engine.PersistIndexData(indexName); err != nil {
		log.Printf("Warning: Failed to persist index '%s' after deleting document: %v", indexName, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document '" + documentID + "' deleted from index '" + indexName + "'"})
}
