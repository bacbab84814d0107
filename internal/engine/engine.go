// Package engine orchestrates the lifecycle of clinical search indexes:
// creation, loading from disk, persistence, and deletion. Every index shares
// one context annotator and one context weight table, both fixed at startup.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/clinisearch/go-context-search/config"
	"github.com/clinisearch/go-context-search/index"
	"github.com/clinisearch/go-context-search/internal/errors"
	"github.com/clinisearch/go-context-search/internal/indexing"
	"github.com/clinisearch/go-context-search/internal/nlp"
	"github.com/clinisearch/go-context-search/internal/persistence"
	"github.com/clinisearch/go-context-search/internal/search"
	"github.com/clinisearch/go-context-search/model"
	"github.com/clinisearch/go-context-search/services"
	"github.com/clinisearch/go-context-search/store"
)

const (
	dataDirPerm       = 0750
	settingsFile      = "settings.gob"
	invertedIndexFile = "inverted_index.gob"
	documentStoreFile = "document_store.gob"
)

var log = logrus.WithField("component", "engine")

// Engine manages multiple clinical search indexes.
// It implements the services.IndexManager interface.
type Engine struct {
	mu        sync.RWMutex
	indexes   map[string]*IndexInstance
	dataDir   string
	weights   *config.ContextWeights
	annotator nlp.Annotator
}

// NewEngine creates an engine rooted at dataDir and loads any indexes
// persisted there. A nil weight table falls back to the built-in defaults; a
// nil annotator means documents are indexed without context annotations.
func NewEngine(dataDir string, weights *config.ContextWeights, annotator nlp.Annotator) *Engine {
	if weights == nil {
		weights = config.DefaultContextWeights()
	}
	if annotator == nil {
		annotator = nlp.PassthroughAnnotator{}
	}
	eng := &Engine{
		indexes:   make(map[string]*IndexInstance),
		dataDir:   dataDir,
		weights:   weights,
		annotator: annotator,
	}
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		log.WithError(err).WithField("data_dir", dataDir).
			Warn("Could not create data directory; new indexes will not persist")
	}
	eng.loadIndexesFromDisk()
	return eng
}

func (e *Engine) loadIndexesFromDisk() {
	log.WithField("data_dir", e.dataDir).Info("Loading indexes from disk")
	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		log.WithError(err).WithField("data_dir", e.dataDir).Warn("Failed to read data directory; no indexes loaded")
		return
	}

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		indexName := item.Name()
		indexPath := filepath.Join(e.dataDir, indexName)
		indexLog := log.WithField("index", indexName)

		var settings config.IndexSettings
		if err := persistence.LoadSnapshot(filepath.Join(indexPath, settingsFile), &settings); err != nil {
			indexLog.WithError(err).Warn("Failed to load index settings; skipping")
			continue
		}
		if settings.Name != indexName {
			indexLog.WithField("settings_name", settings.Name).
				Warn("Index name in settings does not match directory name; skipping")
			continue
		}

		docStore := &store.DocumentStore{}
		if err := persistence.LoadSnapshot(filepath.Join(indexPath, documentStoreFile), docStore); err != nil {
			if err != os.ErrNotExist {
				indexLog.WithError(err).Warn("Failed to load document store; starting empty")
			}
			docStore.Docs = make(map[uint32]model.Document)
			docStore.ExternalIDtoInternalID = make(map[string]uint32)
		}

		invIndex := &index.InvertedIndex{Settings: &settings}
		if err := persistence.LoadSnapshot(filepath.Join(indexPath, invertedIndexFile), invIndex); err != nil {
			if err != os.ErrNotExist {
				indexLog.WithError(err).Warn("Failed to load inverted index; starting empty")
			}
			invIndex.Index = make(map[string]index.PostingList)
		}

		indexerService, err := indexing.NewService(invIndex, docStore, e.annotator)
		if err != nil {
			indexLog.WithError(err).Error("Failed to create indexer service for loaded index; skipping")
			continue
		}
		searchService, err := search.NewService(invIndex, docStore, &settings, e.weights)
		if err != nil {
			indexLog.WithError(err).Error("Failed to create search service for loaded index; skipping")
			continue
		}

		e.indexes[indexName] = &IndexInstance{
			settings:      &settings,
			InvertedIndex: invIndex,
			DocumentStore: docStore,
			indexer:       indexerService,
			searcher:      searchService,
		}
		indexLog.WithField("documents", len(docStore.Docs)).Info("Loaded index")
	}
}

// CreateIndex creates a new index with the given settings and persists its
// initial empty state.
func (e *Engine) CreateIndex(settings config.IndexSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	settings.ApplyDefaults()
	if settings.Name == "" {
		return errors.NewValidationError("name", "index name cannot be empty")
	}
	if conflicts := settings.ValidateFieldNames(); len(conflicts) > 0 {
		return errors.NewValidationError("", strings.Join(conflicts, "; "))
	}
	if _, exists := e.indexes[settings.Name]; exists {
		return errors.NewIndexAlreadyExistsError(settings.Name)
	}

	instance, err := NewIndexInstance(settings, e.annotator)
	if err != nil {
		return fmt.Errorf("failed to create new index instance for '%s': %w", settings.Name, err)
	}

	searchService, err := search.NewService(instance.InvertedIndex, instance.DocumentStore, instance.settings, e.weights)
	if err != nil {
		return fmt.Errorf("failed to create search service for new index '%s': %w", settings.Name, err)
	}
	instance.SetSearcher(searchService)

	indexPath := filepath.Join(e.dataDir, settings.Name)
	if err := persistence.SaveSnapshot(filepath.Join(indexPath, settingsFile), settings); err != nil {
		return fmt.Errorf("failed to save settings for index %s: %w", settings.Name, err)
	}
	if err := persistence.SaveSnapshot(filepath.Join(indexPath, invertedIndexFile), instance.InvertedIndex); err != nil {
		return fmt.Errorf("failed to save initial inverted index for %s: %w", settings.Name, err)
	}
	if err := persistence.SaveSnapshot(filepath.Join(indexPath, documentStoreFile), instance.DocumentStore); err != nil {
		return fmt.Errorf("failed to save initial document store for %s: %w", settings.Name, err)
	}

	e.indexes[settings.Name] = instance
	log.WithField("index", settings.Name).Info("Index created and persisted")
	return nil
}

// GetIndex retrieves an index by its name.
func (e *Engine) GetIndex(name string) (services.IndexAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return nil, errors.NewIndexNotFoundError(name)
	}
	return instance, nil
}

// GetIndexSettings retrieves a copy of the settings for a specific index.
func (e *Engine) GetIndexSettings(name string) (config.IndexSettings, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return config.IndexSettings{}, errors.NewIndexNotFoundError(name)
	}
	return *instance.settings, nil
}

// UpdateIndexSettings replaces the settings of an existing index and
// persists them. Documents already indexed are not re-annotated; callers
// must re-add documents after changing searchable fields or stop words.
func (e *Engine) UpdateIndexSettings(name string, newSettings config.IndexSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.indexes[name]
	if !exists {
		return errors.NewIndexNotFoundError(name)
	}

	if newSettings.Name != "" && newSettings.Name != name {
		return errors.NewValidationError("name",
			fmt.Sprintf("cannot change index name from '%s' to '%s' during settings update", name, newSettings.Name))
	}
	newSettings.Name = name
	newSettings.ApplyDefaults()
	if conflicts := newSettings.ValidateFieldNames(); len(conflicts) > 0 {
		return errors.NewValidationError("", strings.Join(conflicts, "; "))
	}

	searchService, err := search.NewService(instance.InvertedIndex, instance.DocumentStore, &newSettings, e.weights)
	if err != nil {
		return fmt.Errorf("failed to update search service with new settings for '%s': %w", name, err)
	}

	instance.settings = &newSettings
	instance.InvertedIndex.Settings = &newSettings
	instance.searcher = searchService

	settingsPath := filepath.Join(e.dataDir, name, settingsFile)
	if err := persistence.SaveSnapshot(settingsPath, newSettings); err != nil {
		log.WithError(err).WithField("index", name).
			Error("Failed to persist updated settings; in-memory settings updated but disk is stale")
		return fmt.Errorf("failed to save updated settings for index '%s': %w", name, err)
	}

	log.WithField("index", name).Info("Index settings updated and persisted")
	return nil
}

// DeleteIndex removes an index by its name from memory and disk.
func (e *Engine) DeleteIndex(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[name]; !exists {
		indexPath := filepath.Join(e.dataDir, name)
		if _, err := os.Stat(indexPath); os.IsNotExist(err) {
			return errors.NewIndexNotFoundError(name)
		}
	} else {
		delete(e.indexes, name)
	}

	indexPath := filepath.Join(e.dataDir, name)
	if err := os.RemoveAll(indexPath); err != nil {
		return fmt.Errorf("failed to delete index data directory %s: %w", indexPath, err)
	}
	log.WithField("index", name).Info("Index deleted from memory and disk")
	return nil
}

// ListIndexes returns the names of all loaded indexes.
func (e *Engine) ListIndexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.indexes))
	for name := range e.indexes {
		names = append(names, name)
	}
	return names
}

// PersistIndexData saves the current state of an index to disk. Call after
// modifications such as AddDocuments or DeleteDocument.
func (e *Engine) PersistIndexData(indexName string) error {
	e.mu.RLock()
	instance, exists := e.indexes[indexName]
	e.mu.RUnlock()

	if !exists {
		return errors.NewIndexNotFoundError(indexName)
	}

	indexPath := filepath.Join(e.dataDir, indexName)

	// InvertedIndex and DocumentStore take their own read locks in GobEncode.
	if err := persistence.SaveSnapshot(filepath.Join(indexPath, invertedIndexFile), instance.InvertedIndex); err != nil {
		return fmt.Errorf("failed to save inverted index for %s: %w", indexName, err)
	}
	if err := persistence.SaveSnapshot(filepath.Join(indexPath, documentStoreFile), instance.DocumentStore); err != nil {
		return fmt.Errorf("failed to save document store for %s: %w", indexName, err)
	}
	log.WithField("index", indexName).Debug("Index data persisted")
	return nil
}
