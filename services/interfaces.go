// Package services defines the interface surface between the engine, the
// per-index services, and the HTTP API, along with the query and result DTOs.
package services

import (
	"github.com/clinisearch/go-context-search/config"
	"github.com/clinisearch/go-context-search/model"
)

// HitInfo contains contextual metadata about a search hit.
type HitInfo struct {
	CoordinatedTerms  int     `json:"coordinated_terms"`  // Query terms that matched through coordination-eligible occurrences
	QueryTerms        int     `json:"query_terms"`        // Total terms in the query after stop-word removal
	ContextAdjustment float64 `json:"context_adjustment"` // Mean ConText adjustment across the hit's matched occurrences
}

// HitResult represents a single document in the search results, including
// the document itself and details about which query terms matched in which
// fields.
type HitResult struct {
	Document     model.Document      `json:"document"`
	FieldMatches map[string][]string `json:"field_matches"` // e.g., {"note_text": ["chest", "pain"]}
	Score        float64             `json:"score"`         // The overall score for this hit
	Info         HitInfo             `json:"hit_info"`
}

type SearchResult struct {
	Hits     []HitResult `json:"hits"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Took     int64       `json:"took"`     // milliseconds
	QueryId  string      `json:"query_id"` // unique UUID for this search query
}

type SearchQuery struct {
	QueryString              string            `json:"query"`
	Filters                  []FilterCondition `json:"filters,omitempty"`
	Page                     int               `json:"page,omitempty"`
	PageSize                 int               `json:"page_size,omitempty"`
	RestrictSearchableFields []string          `json:"restrict_searchable_fields,omitempty"` // Optional: subset of searchable fields to search in
}

// FilterCondition represents a single filter condition on a filterable
// field. Conditions combine with AND semantics.
type FilterCondition struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"` // "eq", "ne", "gte", "lte"
	Value    interface{} `json:"value"`
}

// Indexer defines operations for adding data to an index
type Indexer interface {
	AddDocuments(docs []model.Document) error
	DeleteAllDocuments() error
	DeleteDocument(docID string) error
}

// Searcher defines operations for querying an index
type Searcher interface {
	Search(query SearchQuery) (SearchResult, error)
}

// IndexManager manages the lifecycle of indices
type IndexManager interface {
	CreateIndex(settings config.IndexSettings) error
	GetIndex(name string) (IndexAccessor, error)
	GetIndexSettings(name string) (config.IndexSettings, error)
	UpdateIndexSettings(name string, settings config.IndexSettings) error
	DeleteIndex(name string) error
	ListIndexes() []string
	PersistIndexData(indexName string) error
}

type IndexAccessor interface {
	Indexer
	Searcher
	Settings() config.IndexSettings
}
