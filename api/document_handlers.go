package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/clinisearch/go-context-search/internal/errors"
	"github.com/clinisearch/go-context-search/model"
)

// AddDocumentsHandler handles adding or updating documents in an index.
// The body may be a single document object or an array of documents; every
// document must carry a "documentID" field.
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
	switch data := rawData.(type) {
	case []interface{}:
		docs = make([]model.Document, len(data))
		for i, item := range data {
			docMap, isMap := item.(map[string]interface{})
			if !isMap {
				SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
					fmt.Sprintf("Document at index %d is not a valid object", i))
				return
			}
			docs[i] = model.Document(docMap)
		}
	case map[string]interface{}:
		docs = []model.Document{model.Document(data)}
	default:
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
			"Request body must be a document object or an array of documents")
		return
	}

	for i, doc := range docs {
		if _, ok := doc.GetDocumentID(); !ok {
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed,
				fmt.Sprintf("Document at index %d is missing a 'documentID' field", i))
			return
		}
	}

	if err := indexAccessor.AddDocuments(docs); err != nil {
		SendIndexingError(c, "add documents", err)
		return
	}
	if err := api.engine.PersistIndexData(indexName); err != nil {
		SendPersistenceError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d document(s) indexed in '%s'", len(docs), indexName),
		"count":   len(docs),
	})
}

// DeleteDocumentHandler deletes a specific document by its external ID.
func (api *API) DeleteDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
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
		SendPersistenceError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document '" + documentID + "' deleted from index '" + indexName + "'"})
}

// DeleteAllDocumentsHandler removes every document from an index while
// keeping its settings.
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
		SendPersistenceError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All documents deleted from index '" + indexName + "'"})
}
