// Package search implements context-aware querying over an annotated index.
// Each matched occurrence's 2-byte payload is decoded, scored through the
// ConText weight table, and folded into the document's BM25 contribution;
// trigger-word occurrences are excluded from query-term coordination.
package search

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clinisearch/go-context-search/config"
	"github.com/clinisearch/go-context-search/index"
	"github.com/clinisearch/go-context-search/internal/scoring"
	"github.com/clinisearch/go-context-search/internal/tokenizer"
	"github.com/clinisearch/go-context-search/payload"
	"github.com/clinisearch/go-context-search/services"
	"github.com/clinisearch/go-context-search/store"
)

const defaultPageSize = 10

// Service implements the search logic for a single index.
// It fulfills the services.Searcher interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	settings      *config.IndexSettings
	weights       *config.ContextWeights
	bm25          *BM25Calculator
}

// NewService creates a new search Service. The weight table is loaded once
// at startup and shared read-only across all queries; nil falls back to the
// built-in defaults.
func NewService(invIndex *index.InvertedIndex, docStore *store.DocumentStore, settings *config.IndexSettings, weights *config.ContextWeights) (*Service, error) {
	if invIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if docStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}
	if weights == nil {
		weights = config.DefaultContextWeights()
	}

	return &Service{
		invertedIndex: invIndex,
		documentStore: docStore,
		settings:      settings,
		weights:       weights,
		bm25:          NewBM25Calculator(invIndex, docStore),
	}, nil
}

// docAccumulator gathers a document's state while posting lists are scanned.
type docAccumulator struct {
	score            float64
	coordinatedTerms map[string]struct{}
	fieldMatches     map[string]map[string]struct{}
	adjustmentSum    float64
	occurrenceCount  int
}

// Search performs a context-aware search operation based on the query.
func (s *Service) Search(query services.SearchQuery) (services.SearchResult, error) {
	startTime := time.Now()
	queryUUID := uuid.New().String()

	effectiveFields, isFieldAllowed, err := s.resolveSearchableFields(query.RestrictSearchableFields)
	if err != nil {
		return services.SearchResult{}, err
	}

	page := query.Page
	if page <= 0 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	queryTokens := tokenizer.RemoveStopWords(
		tokenizer.TokenizeWithPositions(query.QueryString), s.settings.StopWordSet())
	queryTerms := uniqueTerms(queryTokens)
	if len(queryTerms) == 0 {
		return services.SearchResult{Hits: []services.HitResult{}, Total: 0, Page: page, PageSize: pageSize,
			Took: time.Since(startTime).Milliseconds(), QueryId: queryUUID}, nil
	}

	s.invertedIndex.Mu.RLock()
	s.documentStore.Mu.RLock()
	defer s.invertedIndex.Mu.RUnlock()
	defer s.documentStore.Mu.RUnlock()

	accumulators := make(map[uint32]*docAccumulator)

	for _, term := range queryTerms {
		postingList, exists := s.invertedIndex.Index[term]
		if !exists {
			continue
		}
		for i := range postingList {
			entry := &postingList[i]
			if !isFieldAllowed(entry.FieldName) {
				continue
			}

			meanAdjustment, coordinating, occurrences, err := s.scoreEntry(term, entry)
			if err != nil {
				return services.SearchResult{}, err
			}

			base := s.bm25.CalculateBM25(term, entry.DocID, entry.Score, effectiveFields)

			acc, seen := accumulators[entry.DocID]
			if !seen {
				acc = &docAccumulator{
					coordinatedTerms: make(map[string]struct{}),
					fieldMatches:     make(map[string]map[string]struct{}),
				}
				accumulators[entry.DocID] = acc
			}
			acc.score += base * meanAdjustment
			acc.adjustmentSum += meanAdjustment * float64(occurrences)
			acc.occurrenceCount += occurrences

			if coordinating {
				acc.coordinatedTerms[term] = struct{}{}
				if acc.fieldMatches[entry.FieldName] == nil {
					acc.fieldMatches[entry.FieldName] = make(map[string]struct{})
				}
				acc.fieldMatches[entry.FieldName][term] = struct{}{}
			}
		}
	}

	hits := s.collectHits(accumulators, queryTerms, query.Filters)

	total := len(hits)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return services.SearchResult{
		Hits:     hits[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Took:     time.Since(startTime).Milliseconds(),
		QueryId:  queryUUID,
	}, nil
}

// scoreEntry decodes every occurrence payload of a posting entry and returns
// the mean ConText adjustment, whether any occurrence is
// coordination-eligible, and the occurrence count. Persisted payloads carry
// no strength tier, so the heavy tier applies on both tiered dimensions.
func (s *Service) scoreEntry(term string, entry *index.PostingEntry) (float64, bool, int, error) {
	occurrences := entry.Occurrences()
	if occurrences == 0 {
		// Entries without positions (pre-annotation data) score as a single
		// default occurrence.
		adj := scoring.Adjustment(
			payload.ContextAnnotation{}, scoring.TierHeavy, scoring.TierHeavy, s.weights)
		return adj, true, 1, nil
	}

	var adjustmentSum float64
	coordinating := false
	for i := 0; i < occurrences; i++ {
		annotation, err := entry.OccurrenceAnnotation(i)
		if err != nil {
			return 0, false, 0, fmt.Errorf("corrupt context payload for term %q in document %d: %w",
				term, entry.DocID, err)
		}
		adjustmentSum += scoring.Adjustment(annotation, scoring.TierHeavy, scoring.TierHeavy, s.weights)
		if scoring.IsCoordinating(annotation) {
			coordinating = true
		}
	}
	return adjustmentSum / float64(occurrences), coordinating, occurrences, nil
}

// collectHits converts accumulators into filtered, deduplicated, sorted hit
// results. Documents whose every match was a context trigger are dropped:
// nothing about them matched the query's content.
func (s *Service) collectHits(accumulators map[uint32]*docAccumulator, queryTerms []string, filters []services.FilterCondition) []services.HitResult {
	type scoredDoc struct {
		docID uint32
		hit   services.HitResult
	}
	scored := make([]scoredDoc, 0, len(accumulators))

	for docID, acc := range accumulators {
		if len(acc.coordinatedTerms) == 0 {
			continue
		}
		doc, exists := s.documentStore.Docs[docID]
		if !exists {
			continue
		}
		if !matchesFilters(doc, filters) {
			continue
		}

		coordination := float64(len(acc.coordinatedTerms)) / float64(len(queryTerms))
		finalScore := acc.score * coordination

		fieldMatches := make(map[string][]string, len(acc.fieldMatches))
		for field, terms := range acc.fieldMatches {
			matched := make([]string, 0, len(terms))
			for term := range terms {
				matched = append(matched, term)
			}
			sort.Strings(matched)
			fieldMatches[field] = matched
		}

		meanAdjustment := 0.0
		if acc.occurrenceCount > 0 {
			meanAdjustment = acc.adjustmentSum / float64(acc.occurrenceCount)
		}

		scored = append(scored, scoredDoc{
			docID: docID,
			hit: services.HitResult{
				Document:     doc,
				FieldMatches: fieldMatches,
				Score:        finalScore,
				Info: services.HitInfo{
					CoordinatedTerms:  len(acc.coordinatedTerms),
					QueryTerms:        len(queryTerms),
					ContextAdjustment: meanAdjustment,
				},
			},
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].hit.Score != scored[j].hit.Score {
			return scored[i].hit.Score > scored[j].hit.Score
		}
		return scored[i].docID < scored[j].docID
	})

	hits := make([]services.HitResult, 0, len(scored))
	seenDistinct := make(map[string]struct{})
	for _, sd := range scored {
		if s.settings.DistinctField != "" {
			if distinctVal, ok := sd.hit.Document[s.settings.DistinctField]; ok {
				key := fmt.Sprintf("%v", distinctVal)
				if _, dup := seenDistinct[key]; dup {
					continue
				}
				seenDistinct[key] = struct{}{}
			}
		}
		hits = append(hits, sd.hit)
	}
	return hits
}

// resolveSearchableFields validates any field restriction against the
// configured searchable fields and returns the effective field list plus a
// membership check.
func (s *Service) resolveSearchableFields(restrict []string) ([]string, func(string) bool, error) {
	effective := s.settings.SearchableFields
	if len(restrict) > 0 {
		configured := make(map[string]bool)
		for _, field := range s.settings.SearchableFields {
			configured[field] = true
		}
		for _, field := range restrict {
			if !configured[field] {
				return nil, nil, fmt.Errorf("restricted searchable field '%s' is not configured as a searchable field in index settings", field)
			}
		}
		effective = restrict
	}

	allowed := make(map[string]bool, len(effective))
	for _, field := range effective {
		allowed[field] = true
	}
	return effective, func(fieldName string) bool { return allowed[fieldName] }, nil
}

func uniqueTerms(tokens []tokenizer.Token) []string {
	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, dup := seen[tok.Term]; !dup {
			seen[tok.Term] = struct{}{}
			terms = append(terms, tok.Term)
		}
	}
	return terms
}
