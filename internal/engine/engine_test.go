package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinisearch/go-context-search/config"
	"github.com/clinisearch/go-context-search/internal/errors"
	"github.com/clinisearch/go-context-search/internal/nlp"
	"github.com/clinisearch/go-context-search/model"
	"github.com/clinisearch/go-context-search/services"
)

func testSettings(name string) config.IndexSettings {
	return config.IndexSettings{
		Name:             name,
		SearchableFields: []string{"note_text"},
		FilterableFields: []string{"department"},
		StopWords:        []string{"the", "of"},
	}
}

func TestEngineIndexLifecycle(t *testing.T) {
	eng := NewEngine(t.TempDir(), nil, nlp.NewLexiconAnnotator())

	require.NoError(t, eng.CreateIndex(testSettings("notes")))
	assert.Equal(t, []string{"notes"}, eng.ListIndexes())

	err := eng.CreateIndex(testSettings("notes"))
	assert.ErrorIs(t, err, errors.ErrIndexAlreadyExists)

	settings, err := eng.GetIndexSettings("notes")
	require.NoError(t, err)
	assert.Equal(t, "notes", settings.Name)

	_, err = eng.GetIndex("missing")
	assert.ErrorIs(t, err, errors.ErrIndexNotFound)

	require.NoError(t, eng.DeleteIndex("notes"))
	assert.Empty(t, eng.ListIndexes())
	assert.ErrorIs(t, eng.DeleteIndex("notes"), errors.ErrIndexNotFound)
}

func TestEngineUpdateIndexSettings(t *testing.T) {
	eng := NewEngine(t.TempDir(), nil, nil)
	require.NoError(t, eng.CreateIndex(testSettings("notes")))

	updated := testSettings("notes")
	updated.DistinctField = "encounter_id"
	require.NoError(t, eng.UpdateIndexSettings("notes", updated))

	settings, err := eng.GetIndexSettings("notes")
	require.NoError(t, err)
	assert.Equal(t, "encounter_id", settings.DistinctField)

	renamed := testSettings("renamed")
	err = eng.UpdateIndexSettings("notes", renamed)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	assert.ErrorIs(t, eng.UpdateIndexSettings("missing", testSettings("missing")), errors.ErrIndexNotFound)
}

func TestEngineRejectsInvalidSettings(t *testing.T) {
	eng := NewEngine(t.TempDir(), nil, nil)

	err := eng.CreateIndex(config.IndexSettings{SearchableFields: []string{"note_text"}})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestEnginePersistsAnnotationsAcrossRestart(t *testing.T) {
	dataDir := t.TempDir()
	weights := config.DefaultContextWeights()

	eng := NewEngine(dataDir, weights, nlp.NewLexiconAnnotator())
	require.NoError(t, eng.CreateIndex(testSettings("notes")))

	idx, err := eng.GetIndex("notes")
	require.NoError(t, err)
	require.NoError(t, idx.AddDocuments([]model.Document{
		{"documentID": "n1", "note_text": "complains of chest pain"},
		{"documentID": "n2", "note_text": "denies chest pain"},
	}))
	require.NoError(t, eng.PersistIndexData("notes"))

	// A second engine over the same directory must see the same documents
	// and the same context-adjusted ranking.
	reloaded := NewEngine(dataDir, weights, nlp.NewLexiconAnnotator())
	idx2, err := reloaded.GetIndex("notes")
	require.NoError(t, err)

	result, err := idx2.Search(services.SearchQuery{QueryString: "chest pain"})
	require.NoError(t, err)
	require.Len(t, result.Hits, 2)

	firstID, _ := result.Hits[0].Document.GetDocumentID()
	assert.Equal(t, "n1", firstID)
	assert.Greater(t, result.Hits[0].Score, result.Hits[1].Score)
}

func TestEnginePersistMissingIndex(t *testing.T) {
	eng := NewEngine(t.TempDir(), nil, nil)
	assert.ErrorIs(t, eng.PersistIndexData("missing"), errors.ErrIndexNotFound)
}
