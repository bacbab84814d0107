package engine

import (
	"fmt"

	"github.com/clinisearch/go-context-search/config"
	"github.com/clinisearch/go-context-search/index"
	"github.com/clinisearch/go-context-search/internal/indexing"
	"github.com/clinisearch/go-context-search/internal/nlp"
	"github.com/clinisearch/go-context-search/internal/search"
	"github.com/clinisearch/go-context-search/model"
	"github.com/clinisearch/go-context-search/services"
	"github.com/clinisearch/go-context-search/store"
)

// IndexInstance bundles the components of a single clinical index: its
// settings, the annotated inverted index, the document store, and the
// indexing and search services wired over them.
// It implements the services.IndexAccessor interface.
type IndexInstance struct {
	settings      *config.IndexSettings
	InvertedIndex *index.InvertedIndex
	DocumentStore *store.DocumentStore
	indexer       *indexing.Service
	searcher      *search.Service
}

// NewIndexInstance creates an empty IndexInstance. The annotator runs over
// every document added through this instance; the searcher is attached later
// by the engine once the weight table is known.
func NewIndexInstance(settings config.IndexSettings, annotator nlp.Annotator) (*IndexInstance, error) {
	if settings.Name == "" {
		return nil, fmt.Errorf("index name cannot be empty in settings")
	}

	docStore := &store.DocumentStore{
		Docs:                   make(map[uint32]model.Document),
		ExternalIDtoInternalID: make(map[string]uint32),
		NextID:                 0,
	}

	invIndex := &index.InvertedIndex{
		Index:    make(map[string]index.PostingList),
		Settings: &settings,
	}

	indexerService, err := indexing.NewService(invIndex, docStore, annotator)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer service: %w", err)
	}

	return &IndexInstance{
		settings:      &settings,
		InvertedIndex: invIndex,
		DocumentStore: docStore,
		indexer:       indexerService,
	}, nil
}

// AddDocuments delegates to the underlying Indexer service.
func (i *IndexInstance) AddDocuments(docs []model.Document) error {
	if i.indexer == nil {
		return fmt.Errorf("indexer service not initialized for index '%s'", i.settings.Name)
	}
	return i.indexer.AddDocuments(docs)
}

// DeleteAllDocuments delegates to the underlying Indexer service.
func (i *IndexInstance) DeleteAllDocuments() error {
	if i.indexer == nil {
		return fmt.Errorf("indexer service not initialized for index '%s'", i.settings.Name)
	}
	return i.indexer.DeleteAllDocuments()
}

// DeleteDocument delegates to the underlying Indexer service.
func (i *IndexInstance) DeleteDocument(docID string) error {
	if i.indexer == nil {
		return fmt.Errorf("indexer service not initialized for index '%s'", i.settings.Name)
	}
	return i.indexer.DeleteDocument(docID)
}

// Search delegates to the underlying Searcher service.
func (i *IndexInstance) Search(query services.SearchQuery) (services.SearchResult, error) {
	if i.searcher == nil {
		return services.SearchResult{}, fmt.Errorf("search service not initialized for index '%s'", i.settings.Name)
	}
	return i.searcher.Search(query)
}

// Settings returns a copy of the configuration settings for this index.
func (i *IndexInstance) Settings() config.IndexSettings {
	return *i.settings
}

// SetSearcher attaches the search service. Called by the engine after the
// instance exists so the context weight table can be threaded in.
func (i *IndexInstance) SetSearcher(searcher *search.Service) {
	i.searcher = searcher
}
