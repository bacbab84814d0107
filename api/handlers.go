// Package api exposes the HTTP surface of the clinical search engine: index
// lifecycle, document ingestion, and context-aware search.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinisearch/go-context-search/services"
)

const maxRequestBodySize = 32 << 20 // 32 MiB

// API holds dependencies for API handlers, primarily the index manager.
type API struct {
	engine services.IndexManager
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.IndexManager) *API {
	return &API{engine: engine}
}

// SetupRoutes defines all API routes on the given router.
func SetupRoutes(router *gin.Engine, engine services.IndexManager) {
	apiHandler := NewAPI(engine)

	router.Use(RequestSizeLimitMiddleware(maxRequestBodySize))
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggerMiddleware())
	router.Use(CORSMiddleware())

	router.GET("/health", apiHandler.HealthCheckHandler)

	indexRoutes := router.Group("/indexes")
	{
		indexRoutes.POST("", apiHandler.CreateIndexHandler)
		indexRoutes.GET("", apiHandler.ListIndexesHandler)
		indexRoutes.GET("/:indexName", apiHandler.GetIndexHandler)
		indexRoutes.DELETE("/:indexName", apiHandler.DeleteIndexHandler)
		indexRoutes.PATCH("/:indexName/settings", apiHandler.UpdateIndexSettingsHandler)

		docRoutes := indexRoutes.Group("/:indexName/documents")
		{
			docRoutes.PUT("", apiHandler.AddDocumentsHandler)
			docRoutes.DELETE("", apiHandler.DeleteAllDocumentsHandler)
			docRoutes.DELETE("/:documentId", apiHandler.DeleteDocumentHandler)
		}

		indexRoutes.POST("/:indexName/_search", apiHandler.SearchHandler)
	}
}

// HealthCheckHandler reports service liveness.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
