// Package indexing turns clinical documents into annotated posting lists:
// each searchable field is tokenized, stripped of clinical stop words, run
// through the ConText annotator, and written into the inverted index with
// per-occurrence positions and encoded 2-byte contextual payloads.
package indexing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/clinisearch/go-context-search/config"
	"github.com/clinisearch/go-context-search/index"
	"github.com/clinisearch/go-context-search/internal/errors"
	"github.com/clinisearch/go-context-search/internal/nlp"
	"github.com/clinisearch/go-context-search/internal/tokenizer"
	"github.com/clinisearch/go-context-search/model"
	"github.com/clinisearch/go-context-search/store"
)

var log = logrus.WithField("component", "indexing")

// Service implements the indexing logic for a single index.
// It fulfills the services.Indexer interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	annotator     nlp.Annotator
	// settings are accessible via invertedIndex.Settings
}

// NewService creates a new indexing Service. A nil annotator falls back to
// the passthrough annotator (no contextual flags).
func NewService(invertedIndex *index.InvertedIndex, documentStore *store.DocumentStore, annotator nlp.Annotator) (*Service, error) {
	if invertedIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if invertedIndex.Index == nil {
		invertedIndex.Index = make(map[string]index.PostingList)
	}
	if documentStore.Docs == nil {
		documentStore.Docs = make(map[uint32]model.Document)
	}
	if documentStore.ExternalIDtoInternalID == nil {
		documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	}
	if invertedIndex.Settings == nil {
		return nil, fmt.Errorf("inverted index settings cannot be nil")
	}
	if annotator == nil {
		annotator = nlp.PassthroughAnnotator{}
	}
	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
		annotator:     annotator,
	}, nil
}

// AddDocuments adds a batch of documents to the index.
// This satisfies the services.Indexer interface.
func (s *Service) AddDocuments(docs []model.Document) error {
	// Process documents in micro-batches to minimize lock contention and
	// allow search operations to interleave.
	const microBatchSize = 10

	for i := 0; i < len(docs); i += microBatchSize {
		end := i + microBatchSize
		if end > len(docs) {
			end = len(docs)
		}

		if err := s.addDocumentMicroBatch(docs[i:end]); err != nil {
			return fmt.Errorf("failed to add document micro-batch starting at index %d: %w", i, err)
		}

		// Yield between micro-batches so pending searches can acquire the
		// read locks.
		if i+microBatchSize < len(docs) {
			time.Sleep(1 * time.Millisecond)
		}
	}
	return nil
}

// addDocumentMicroBatch processes a very small batch of documents with
// minimal lock time.
func (s *Service) addDocumentMicroBatch(docs []model.Document) error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	for _, doc := range docs {
		docID, _ := doc.GetDocumentID()
		if err := s.addSingleDocumentUnsafe(doc); err != nil {
			return fmt.Errorf("failed to add document ID %s: %w", docID, err)
		}
	}
	return nil
}

// addSingleDocumentUnsafe handles the processing and indexing of a single
// document. The caller must hold locks on documentStore and invertedIndex.
func (s *Service) addSingleDocumentUnsafe(doc model.Document) error {
	docIDStr, ok := doc.GetDocumentID()
	if !ok {
		return fmt.Errorf("document must carry a non-empty string 'documentID' field")
	}
	docIDStr = strings.TrimSpace(docIDStr)
	if docIDStr == "" {
		return fmt.Errorf("document documentID cannot be empty or whitespace-only")
	}

	settings := s.invertedIndex.Settings
	stopWords := settings.StopWordSet()

	// Get/Assign internal ID; on update, clean up the old document's terms.
	internalID, exists := s.documentStore.ExternalIDtoInternalID[docIDStr]
	if exists {
		if oldDoc, found := s.documentStore.Docs[internalID]; found {
			s.removeDocumentTermsUnsafe(oldDoc, internalID)
		} else {
			log.WithFields(logrus.Fields{"documentID": docIDStr, "internalID": internalID}).
				Warn("Document present in ID mapping but not in store; cannot clean up old terms")
		}
	} else {
		internalID = s.documentStore.NextID
		s.documentStore.ExternalIDtoInternalID[docIDStr] = internalID
		s.documentStore.NextID++
	}

	s.documentStore.Docs[internalID] = doc

	for _, fieldName := range settings.SearchableFields {
		textContent, found := fieldText(doc, fieldName)
		if !found {
			log.WithFields(logrus.Fields{"field": fieldName, "documentID": docIDStr}).
				Debug("Searchable field not found in document")
			continue
		}
		if strings.TrimSpace(textContent) == "" {
			continue
		}

		tokens := tokenizer.RemoveStopWords(tokenizer.TokenizeWithPositions(textContent), stopWords)
		if len(tokens) == 0 {
			continue
		}
		annotated := s.annotator.Annotate(tokens)

		// Group occurrences per term, keeping positions and their encoded
		// payloads in parallel slices.
		type occurrences struct {
			positions []int
			payloads  []byte
		}
		byTerm := make(map[string]*occurrences)
		for _, tok := range annotated {
			occ, seen := byTerm[tok.Term]
			if !seen {
				occ = &occurrences{}
				byTerm[tok.Term] = occ
			}
			occ.positions = append(occ.positions, tok.Position)
			occ.payloads = append(occ.payloads, tok.Annotation.Bytes()...)
		}

		withPrefixes := fieldUsesPrefixSearch(fieldName, settings)
		for term, occ := range byTerm {
			entry := index.PostingEntry{
				DocID:      internalID,
				FieldName:  fieldName,
				Score:      float64(len(occ.positions)),
				IsFullWord: true,
				Positions:  occ.positions,
				Payloads:   occ.payloads,
			}
			s.insertPostingUnsafe(term, entry)

			if !withPrefixes {
				continue
			}
			// Prefix n-grams share the full word's occurrences so that a
			// prefix match is scored with the same contextual payloads.
			for _, ngram := range tokenizer.GeneratePrefixNGrams(term) {
				if ngram == term {
					continue
				}
				s.insertPostingUnsafe(ngram, index.PostingEntry{
					DocID:      internalID,
					FieldName:  fieldName,
					Score:      float64(len(occ.positions)),
					IsFullWord: false,
					Positions:  occ.positions,
					Payloads:   occ.payloads,
				})
			}
		}
	}
	return nil
}

// insertPostingUnsafe replaces any existing entry for the same DocID and
// FieldName, then inserts keeping the list ordered by DocID then FieldName.
func (s *Service) insertPostingUnsafe(term string, entry index.PostingEntry) {
	list := s.invertedIndex.Index[term]

	existingIdx := -1
	for i, e := range list {
		if e.DocID == entry.DocID && e.FieldName == entry.FieldName && e.IsFullWord == entry.IsFullWord {
			existingIdx = i
			break
		}
	}
	if existingIdx != -1 {
		list = append(list[:existingIdx], list[existingIdx+1:]...)
	}

	insertionIdx := sort.Search(len(list), func(i int) bool {
		if list[i].DocID != entry.DocID {
			return list[i].DocID > entry.DocID
		}
		return list[i].FieldName >= entry.FieldName
	})

	list = append(list, index.PostingEntry{})
	copy(list[insertionIdx+1:], list[insertionIdx:])
	list[insertionIdx] = entry
	s.invertedIndex.Index[term] = list
}

// removeDocumentTermsUnsafe removes all posting entries of a document,
// regenerating the terms from its stored content. The caller must hold both
// locks.
func (s *Service) removeDocumentTermsUnsafe(doc model.Document, internalID uint32) {
	settings := s.invertedIndex.Settings
	stopWords := settings.StopWordSet()

	for _, fieldName := range settings.SearchableFields {
		textContent, found := fieldText(doc, fieldName)
		if !found || strings.TrimSpace(textContent) == "" {
			continue
		}

		tokens := tokenizer.RemoveStopWords(tokenizer.TokenizeWithPositions(textContent), stopWords)
		uniqueTerms := make(map[string]struct{})
		for _, tok := range tokens {
			uniqueTerms[tok.Term] = struct{}{}
			if fieldUsesPrefixSearch(fieldName, settings) {
				for _, ngram := range tokenizer.GeneratePrefixNGrams(tok.Term) {
					uniqueTerms[ngram] = struct{}{}
				}
			}
		}

		for term := range uniqueTerms {
			postingList, ok := s.invertedIndex.Index[term]
			if !ok {
				continue
			}
			newList := make(index.PostingList, 0, len(postingList))
			for _, entry := range postingList {
				if entry.DocID != internalID || entry.FieldName != fieldName {
					newList = append(newList, entry)
				}
			}
			if len(newList) == 0 {
				delete(s.invertedIndex.Index, term)
			} else {
				s.invertedIndex.Index[term] = newList
			}
		}
	}
}

// fieldText extracts the indexable text of a document field. JSON arrays
// arrive as []interface{}; explicit []string is also handled.
func fieldText(doc model.Document, fieldName string) (string, bool) {
	fieldVal, exists := doc[fieldName]
	if !exists {
		return "", false
	}
	switch v := fieldVal.(type) {
	case string:
		return v, true
	case []interface{}:
		var parts []string
		for _, item := range v {
			if strItem, ok := item.(string); ok {
				parts = append(parts, strItem)
			}
		}
		return strings.Join(parts, " "), true
	case []string:
		return strings.Join(v, " "), true
	default:
		return "", false
	}
}

// fieldUsesPrefixSearch reports whether prefix n-grams are generated for the
// field.
func fieldUsesPrefixSearch(fieldName string, settings *config.IndexSettings) bool {
	for _, noPrefixField := range settings.FieldsWithoutPrefixSearch {
		if fieldName == noPrefixField {
			return false
		}
	}
	return true
}

// DeleteAllDocuments removes all documents from the index, clearing both the
// document store and inverted index.
// This satisfies the services.Indexer interface.
func (s *Service) DeleteAllDocuments() error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	s.documentStore.Docs = make(map[uint32]model.Document)
	s.documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	s.documentStore.NextID = 0

	s.invertedIndex.Index = make(map[string]index.PostingList)

	return nil
}

// DeleteDocument removes a specific document from the index by its external
// ID. This satisfies the services.Indexer interface.
func (s *Service) DeleteDocument(docID string) error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	internalID, exists := s.documentStore.ExternalIDtoInternalID[docID]
	if !exists {
		return errors.NewDocumentNotFoundError(docID)
	}

	doc, docExists := s.documentStore.Docs[internalID]
	if !docExists {
		delete(s.documentStore.ExternalIDtoInternalID, docID)
		return fmt.Errorf("document with ID '%s' found in mapping but not in store (inconsistent state)", docID)
	}

	s.removeDocumentTermsUnsafe(doc, internalID)

	delete(s.documentStore.Docs, internalID)
	delete(s.documentStore.ExternalIDtoInternalID, docID)

	return nil
}
