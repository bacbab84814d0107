package api

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/clinisearch/go-context-search/config"
	internalErrors "github.com/clinisearch/go-context-search/internal/errors"
)

// CreateIndexHandler handles the request to create a new index.
// Request Body: config.IndexSettings
func (api *API) CreateIndexHandler(c *gin.Context) {
	var settings config.IndexSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := api.engine.CreateIndex(settings); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrIndexAlreadyExists):
			SendIndexExistsError(c, settings.Name)
		case errors.Is(err, internalErrors.ErrInvalidInput):
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		default:
			SendInternalError(c, "create index", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Index '" + settings.Name + "' created successfully"})
}

// ListIndexesHandler returns the names of all indexes.
func (api *API) ListIndexesHandler(c *gin.Context) {
	names := api.engine.ListIndexes()
	sort.Strings(names)
	c.JSON(http.StatusOK, gin.H{"indexes": names, "total": len(names)})
}

// GetIndexHandler returns the settings of a specific index.
func (api *API) GetIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	settings, err := api.engine.GetIndexSettings(indexName)
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "get index settings", err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateIndexSettingsHandler replaces the settings of an existing index.
// Request Body: config.IndexSettings (name must match or be omitted)
func (api *API) UpdateIndexSettingsHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	var settings config.IndexSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if err := api.engine.UpdateIndexSettings(indexName, settings); err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrIndexNotFound):
			SendIndexNotFoundError(c, indexName)
		case errors.Is(err, internalErrors.ErrInvalidInput):
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		default:
			SendInternalError(c, "update index settings", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings for index '" + indexName + "' updated successfully"})
}

// DeleteIndexHandler deletes an index and its persisted data.
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
