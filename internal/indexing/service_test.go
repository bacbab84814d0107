package indexing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinisearch/go-context-search/config"
	"github.com/clinisearch/go-context-search/index"
	"github.com/clinisearch/go-context-search/internal/nlp"
	"github.com/clinisearch/go-context-search/model"
	"github.com/clinisearch/go-context-search/payload"
	"github.com/clinisearch/go-context-search/store"
)

func newTestService(t *testing.T) (*Service, *index.InvertedIndex, *store.DocumentStore) {
	t.Helper()
	settings := &config.IndexSettings{
		Name:                      "clinical_notes",
		SearchableFields:          []string{"note_text"},
		StopWords:                 []string{"patient"},
		FieldsWithoutPrefixSearch: []string{"note_text"},
	}

	invIndex := &index.InvertedIndex{
		Index:    make(map[string]index.PostingList),
		Settings: settings,
	}
	docStore := &store.DocumentStore{
		Docs:                   make(map[uint32]model.Document),
		ExternalIDtoInternalID: make(map[string]uint32),
	}

	svc, err := NewService(invIndex, docStore, nlp.NewLexiconAnnotator())
	require.NoError(t, err)
	return svc, invIndex, docStore
}

func findEntry(t *testing.T, invIndex *index.InvertedIndex, term string, docID uint32) index.PostingEntry {
	t.Helper()
	list, ok := invIndex.Index[term]
	require.True(t, ok, "term %q not indexed", term)
	for _, entry := range list {
		if entry.DocID == docID {
			return entry
		}
	}
	t.Fatalf("no posting entry for term %q doc %d", term, docID)
	return index.PostingEntry{}
}

func TestAddDocumentsEncodesAnnotations(t *testing.T) {
	svc, invIndex, _ := newTestService(t)

	err := svc.AddDocuments([]model.Document{
		{"documentID": "note1", "note_text": "Patient denies chest pain"},
	})
	require.NoError(t, err)

	// "pain" sits in the negation scope of "denies".
	pain := findEntry(t, invIndex, "pain", 0)
	require.Equal(t, 1, pain.Occurrences())
	a, err := pain.OccurrenceAnnotation(0)
	require.NoError(t, err)
	assert.True(t, a.Negated)
	assert.True(t, a.IsQueryTerm())

	// "denies" is a negation trigger, not itself negated.
	denies := findEntry(t, invIndex, "denies", 0)
	a, err = denies.OccurrenceAnnotation(0)
	require.NoError(t, err)
	assert.True(t, a.NegationTrigger)
	assert.False(t, a.Negated)
	assert.False(t, a.IsQueryTerm())

	// The stop word never reaches the index.
	_, indexed := invIndex.Index["patient"]
	assert.False(t, indexed)
}

func TestAddDocumentsPayloadBytesPerOccurrence(t *testing.T) {
	svc, invIndex, _ := newTestService(t)

	err := svc.AddDocuments([]model.Document{
		{"documentID": "note1", "note_text": "chest pain without chest pain"},
	})
	require.NoError(t, err)

	entry := findEntry(t, invIndex, "pain", 0)
	require.Equal(t, 2, entry.Occurrences())
	require.Len(t, entry.Payloads, 2*payload.Size)
	assert.Equal(t, float64(2), entry.Score)

	first, err := entry.OccurrenceAnnotation(0)
	require.NoError(t, err)
	assert.False(t, first.Negated, "first occurrence precedes the trigger")

	second, err := entry.OccurrenceAnnotation(1)
	require.NoError(t, err)
	assert.True(t, second.Negated, "second occurrence is inside the negation scope")
}

func TestUpdateDocumentCleansOldTerms(t *testing.T) {
	svc, invIndex, docStore := newTestService(t)

	require.NoError(t, svc.AddDocuments([]model.Document{
		{"documentID": "note1", "note_text": "chest pain"},
	}))
	require.NoError(t, svc.AddDocuments([]model.Document{
		{"documentID": "note1", "note_text": "severe headache"},
	}))

	_, stillIndexed := invIndex.Index["pain"]
	assert.False(t, stillIndexed, "old terms must be removed on update")
	_, nowIndexed := invIndex.Index["headache"]
	assert.True(t, nowIndexed)

	// Internal ID is reused, not reallocated.
	assert.Equal(t, uint32(1), docStore.NextID)
}

func TestDeleteDocument(t *testing.T) {
	svc, invIndex, docStore := newTestService(t)

	require.NoError(t, svc.AddDocuments([]model.Document{
		{"documentID": "note1", "note_text": "chest pain"},
		{"documentID": "note2", "note_text": "chest tightness"},
	}))

	require.NoError(t, svc.DeleteDocument("note1"))

	_, painIndexed := invIndex.Index["pain"]
	assert.False(t, painIndexed)

	// "chest" survives via note2.
	chest, chestIndexed := invIndex.Index["chest"]
	require.True(t, chestIndexed)
	require.Len(t, chest, 1)
	assert.Equal(t, uint32(1), chest[0].DocID)

	assert.Len(t, docStore.Docs, 1)
	assert.Error(t, svc.DeleteDocument("note1"))
}

func TestDeleteAllDocuments(t *testing.T) {
	svc, invIndex, docStore := newTestService(t)

	require.NoError(t, svc.AddDocuments([]model.Document{
		{"documentID": "note1", "note_text": "chest pain"},
	}))
	require.NoError(t, svc.DeleteAllDocuments())

	assert.Empty(t, invIndex.Index)
	assert.Empty(t, docStore.Docs)
	assert.Equal(t, uint32(0), docStore.NextID)
}

func TestAddDocumentRequiresID(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.AddDocuments([]model.Document{{"note_text": "chest pain"}})
	assert.Error(t, err)
}

func TestPrefixNGramsShareOccurrencePayloads(t *testing.T) {
	settings := &config.IndexSettings{
		Name:             "clinical_notes",
		SearchableFields: []string{"note_text"},
		StopWords:        []string{},
	}
	invIndex := &index.InvertedIndex{Index: make(map[string]index.PostingList), Settings: settings}
	docStore := &store.DocumentStore{
		Docs:                   make(map[uint32]model.Document),
		ExternalIDtoInternalID: make(map[string]uint32),
	}
	svc, err := NewService(invIndex, docStore, nlp.NewLexiconAnnotator())
	require.NoError(t, err)

	require.NoError(t, svc.AddDocuments([]model.Document{
		{"documentID": "note1", "note_text": "no dyspnea"},
	}))

	prefix := findEntry(t, invIndex, "dysp", 0)
	assert.False(t, prefix.IsFullWord)
	require.Equal(t, 1, prefix.Occurrences())

	a, err := prefix.OccurrenceAnnotation(0)
	require.NoError(t, err)
	assert.True(t, a.Negated, "prefix matches must carry the full word's annotation")
}
