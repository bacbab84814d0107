package search

import (
	"math"

	"github.com/clinisearch/go-context-search/index"
	"github.com/clinisearch/go-context-search/internal/tokenizer"
	"github.com/clinisearch/go-context-search/model"
	"github.com/clinisearch/go-context-search/store"
)

// BM25 parameters
const (
	bm25K1 = 1.2  // Controls term frequency saturation
	bm25B  = 0.75 // Controls how much effect document length has
)

// BM25Calculator handles BM25 score calculations. The score it produces is
// the base relevance contribution of a term occurrence set, before the
// ConText adjustment multiplies in.
type BM25Calculator struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
}

// NewBM25Calculator creates a new BM25 calculator
func NewBM25Calculator(invIndex *index.InvertedIndex, docStore *store.DocumentStore) *BM25Calculator {
	return &BM25Calculator{
		invertedIndex: invIndex,
		documentStore: docStore,
	}
}

// calculateIDF calculates the inverse document frequency
// IDF = log(N / df) where N = total documents, df = documents containing term
func (calc *BM25Calculator) calculateIDF(term string) float64 {
	totalDocs := float64(len(calc.documentStore.Docs))
	if totalDocs == 0 {
		return 0.0
	}

	docFreq := calc.getDocumentFrequency(term)
	if docFreq == 0 {
		return 0.0
	}

	return math.Log(totalDocs / float64(docFreq))
}

// getDocumentFrequency returns the number of documents that contain the given term
func (calc *BM25Calculator) getDocumentFrequency(term string) int {
	postingList, exists := calc.invertedIndex.Index[term]
	if !exists {
		return 0
	}

	// Count unique documents (a term might appear in multiple fields of the
	// same document)
	uniqueDocs := make(map[uint32]bool)
	for _, entry := range postingList {
		uniqueDocs[entry.DocID] = true
	}

	return len(uniqueDocs)
}

// CalculateBM25 calculates BM25 score with document length normalization
// BM25 = IDF * (tf * (k1 + 1)) / (tf + k1 * (1 - b + b * (|d| / avgdl)))
func (calc *BM25Calculator) CalculateBM25(term string, docID uint32, termFreq float64, searchableFields []string) float64 {
	idf := calc.calculateIDF(term)

	doc, exists := calc.documentStore.Docs[docID]
	if !exists {
		return 0.0
	}

	docLength := calc.getDocumentLength(doc, searchableFields)
	avgDocLength := calc.getAverageDocumentLength(searchableFields)
	if avgDocLength == 0 {
		return 0.0
	}

	tf := termFreq
	bm25TF := (tf * (bm25K1 + 1)) / (tf + bm25K1*(1-bm25B+bm25B*(float64(docLength)/avgDocLength)))

	return idf * bm25TF
}

// getAverageDocumentLength calculates the average document length across all documents
func (calc *BM25Calculator) getAverageDocumentLength(searchableFields []string) float64 {
	if len(calc.documentStore.Docs) == 0 {
		return 0.0
	}

	totalLength := 0
	docCount := 0

	for _, doc := range calc.documentStore.Docs {
		totalLength += calc.getDocumentLength(doc, searchableFields)
		docCount++
	}

	if docCount == 0 {
		return 0.0
	}

	return float64(totalLength) / float64(docCount)
}

// getDocumentLength calculates the total number of terms in a document across searchable fields
func (calc *BM25Calculator) getDocumentLength(doc model.Document, searchableFields []string) int {
	totalLength := 0

	for _, fieldName := range searchableFields {
		if fieldValue, exists := doc[fieldName]; exists {
			totalLength += fieldLength(fieldValue)
		}
	}

	return totalLength
}

// fieldLength calculates the number of terms in a field value
func fieldLength(fieldValue interface{}) int {
	switch v := fieldValue.(type) {
	case string:
		return len(tokenizer.Tokenize(v))
	case []string:
		total := 0
		for _, str := range v {
			total += fieldLength(str)
		}
		return total
	case []interface{}:
		total := 0
		for _, item := range v {
			if str, ok := item.(string); ok {
				total += fieldLength(str)
			}
		}
		return total
	default:
		return 0
	}
}
