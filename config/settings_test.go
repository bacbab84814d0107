package config

import (
	"testing"
)

func TestValidateFieldNames(t *testing.T) {
	t.Run("valid settings", func(t *testing.T) {
		settings := &IndexSettings{
			Name:                      "clinical_notes",
			SearchableFields:          []string{"chief_complaint", "note_text"},
			FilterableFields:          []string{"department", "encounter_date"},
			FieldsWithoutPrefixSearch: []string{"chief_complaint"},
		}
		if conflicts := settings.ValidateFieldNames(); len(conflicts) != 0 {
			t.Errorf("Expected no conflicts, got %v", conflicts)
		}
	})

	t.Run("duplicate searchable fields", func(t *testing.T) {
		settings := &IndexSettings{
			Name:             "clinical_notes",
			SearchableFields: []string{"note_text", "note_text"},
		}
		conflicts := settings.ValidateFieldNames()
		if len(conflicts) == 0 {
			t.Error("Expected a duplicate-field conflict, got none")
		}
	})

	t.Run("prefix opt-out must be searchable", func(t *testing.T) {
		settings := &IndexSettings{
			Name:                      "clinical_notes",
			SearchableFields:          []string{"note_text"},
			FieldsWithoutPrefixSearch: []string{"department"},
		}
		conflicts := settings.ValidateFieldNames()
		if len(conflicts) != 1 {
			t.Errorf("Expected 1 conflict, got %d: %v", len(conflicts), conflicts)
		}
	})

	t.Run("empty field name", func(t *testing.T) {
		settings := &IndexSettings{
			Name:             "clinical_notes",
			SearchableFields: []string{"  "},
		}
		conflicts := settings.ValidateFieldNames()
		if len(conflicts) == 0 {
			t.Error("Expected a conflict for whitespace-only field name")
		}
	})
}

func TestApplyDefaults(t *testing.T) {
	settings := &IndexSettings{Name: "clinical_notes"}
	settings.ApplyDefaults()

	if settings.StopWords == nil || len(settings.StopWords) == 0 {
		t.Error("Expected default clinical stop words to be applied")
	}
	if settings.SearchableFields == nil {
		t.Error("Expected SearchableFields to be initialized")
	}
	if settings.FilterableFields == nil {
		t.Error("Expected FilterableFields to be initialized")
	}
	if settings.FieldsWithoutPrefixSearch == nil {
		t.Error("Expected FieldsWithoutPrefixSearch to be initialized")
	}
}

func TestApplyDefaultsKeepsExplicitStopWords(t *testing.T) {
	settings := &IndexSettings{
		Name:      "clinical_notes",
		StopWords: []string{"custom"},
	}
	settings.ApplyDefaults()

	if len(settings.StopWords) != 1 || settings.StopWords[0] != "custom" {
		t.Errorf("Expected explicit stop words to be preserved, got %v", settings.StopWords)
	}
}

func TestStopWordSet(t *testing.T) {
	settings := &IndexSettings{StopWords: []string{"Patient", "pt"}}
	set := settings.StopWordSet()

	if _, ok := set["patient"]; !ok {
		t.Error("Expected stop word set to be lowercased")
	}
	if _, ok := set["pt"]; !ok {
		t.Error("Expected 'pt' in stop word set")
	}
	if len(set) != 2 {
		t.Errorf("Expected 2 stop words, got %d", len(set))
	}
}
