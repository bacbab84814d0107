package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/clinisearch/go-context-search/internal/errors"
	"github.com/clinisearch/go-context-search/services"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query                    string                     `json:"query"`
	Filters                  []services.FilterCondition `json:"filters,omitempty"`
	Page                     int                        `json:"page"`
	PageSize                 int                        `json:"page_size"`
	RestrictSearchableFields []string                   `json:"restrict_searchable_fields,omitempty"`
}

// SearchHandler handles context-aware search requests against an index.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	indexName := c.Param("indexName")

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

	for _, filter := range req.Filters {
		if filter.Field == "" {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Filter condition is missing a field name")
			return
		}
	}

	results, err := indexAccessor.Search(services.SearchQuery{
		QueryString:              req.Query,
		Filters:                  req.Filters,
		Page:                     req.Page,
		PageSize:                 req.PageSize,
		RestrictSearchableFields: req.RestrictSearchableFields,
	})
	if err != nil {
		SendSearchError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
