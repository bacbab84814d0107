// Package config provides configuration structures for the clinical search
// engine: per-index settings and the process-wide ConText weight table used
// by the scoring transform.
package config

import (
	"strings"
)

// IndexSettings contains all configuration options for a clinical search
// index: which note fields are searchable, which can be filtered on, and the
// clinical stop words removed before terms are annotated and indexed.
//
// SearchableFields order matters: earlier fields (e.g. "chief_complaint")
// are treated as higher priority than later ones (e.g. "note_text") when
// results tie on score.
type IndexSettings struct {
	Name                      string   `json:"name"`                         // Unique name for the index
	SearchableFields          []string `json:"searchable_fields"`            // Note fields that are annotated and indexed, in priority order
	FilterableFields          []string `json:"filterable_fields"`            // Fields usable in filter conditions (exact match, range)
	StopWords                 []string `json:"stop_words"`                   // Clinical stop words removed before annotation and indexing
	FieldsWithoutPrefixSearch []string `json:"fields_without_prefix_search"` // Fields indexed as whole words only (no prefix n-grams). Must be in SearchableFields.
	DistinctField             string   `json:"distinct_field"`               // Field used for deduplication of results (e.g. "encounter_id")
}

// defaultStopWords is a minimal clinical stop-word list applied when an index
// is created without one. Section boilerplate dominates clinical notes and
// would otherwise flood the posting lists.
var defaultStopWords = []string{
	"patient", "pt", "exam", "assessment", "plan",
	"note", "report", "status", "noted",
}

// ValidateFieldNames validates field names for basic requirements and
// cross-references between field lists.
func (settings *IndexSettings) ValidateFieldNames() []string {
	var conflicts []string

	conflicts = append(conflicts, checkDuplicates("searchable_fields", settings.SearchableFields)...)
	conflicts = append(conflicts, checkDuplicates("filterable_fields", settings.FilterableFields)...)
	conflicts = append(conflicts, checkDuplicates("fields_without_prefix_search", settings.FieldsWithoutPrefixSearch)...)
	conflicts = append(conflicts, checkDuplicates("stop_words", settings.StopWords)...)

	searchableSet := make(map[string]bool)
	for _, field := range settings.SearchableFields {
		searchableSet[field] = true
	}
	for _, field := range settings.FieldsWithoutPrefixSearch {
		if !searchableSet[field] {
			conflicts = append(conflicts, "Field '"+field+"' in fields_without_prefix_search is not in searchable_fields")
		}
	}

	allFields := make([]string, 0)
	allFields = append(allFields, settings.SearchableFields...)
	allFields = append(allFields, settings.FilterableFields...)
	allFields = append(allFields, settings.FieldsWithoutPrefixSearch...)
	if settings.DistinctField != "" {
		allFields = append(allFields, settings.DistinctField)
	}
	for _, field := range allFields {
		if strings.TrimSpace(field) == "" {
			conflicts = append(conflicts, "Field name cannot be empty or whitespace-only")
		}
	}

	return conflicts
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, fields []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, field := range fields {
		if seen[field] {
			errors = append(errors, "Duplicate value '"+field+"' found in "+fieldName)
		}
		seen[field] = true
	}

	return errors
}

// ApplyDefaults applies default values to the index settings.
func (settings *IndexSettings) ApplyDefaults() {
	if settings.StopWords == nil {
		settings.StopWords = append([]string(nil), defaultStopWords...)
	}

	// Initialize empty slices if nil to prevent nil pointer issues
	if settings.SearchableFields == nil {
		settings.SearchableFields = []string{}
	}
	if settings.FilterableFields == nil {
		settings.FilterableFields = []string{}
	}
	if settings.FieldsWithoutPrefixSearch == nil {
		settings.FieldsWithoutPrefixSearch = []string{}
	}
}

// StopWordSet returns the stop words as a set for fast lookup during
// tokenization.
func (settings *IndexSettings) StopWordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(settings.StopWords))
	for _, w := range settings.StopWords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
