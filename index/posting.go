// Package index defines the in-memory inverted index and its posting lists.
// Each posting entry carries, per term occurrence, a position and a 2-byte
// contextual payload produced by the ConText annotation pass at index time.
package index

import (
	"github.com/clinisearch/go-context-search/payload"
)

// PostingEntry records every occurrence of a term within one field of one
// document. Positions and Payloads run in parallel: Payloads holds
// payload.Size bytes per position, so the annotation of the i-th occurrence
// starts at byte offset i*payload.Size.
type PostingEntry struct {
	DocID      uint32  // Internal numeric ID for efficiency
	FieldName  string  // The name of the field where the term was found (e.g., "note_text")
	Score      float64 // Term frequency within this field for this document
	IsFullWord bool    // True for complete words, false for generated prefix n-grams
	Positions  []int   // Token positions of each occurrence
	Payloads   []byte  // Encoded contextual annotations, payload.Size bytes per occurrence
}

// OccurrenceAnnotation decodes the contextual annotation of the i-th
// occurrence. Entries indexed before annotation was enabled have no payload
// bytes; those decode as the default annotation. A short (corrupt) payload
// slice surfaces as an error.
func (e *PostingEntry) OccurrenceAnnotation(i int) (payload.ContextAnnotation, error) {
	if len(e.Payloads) == 0 {
		return payload.ContextAnnotation{}, nil
	}
	return payload.Decode(e.Payloads, i*payload.Size)
}

// Occurrences returns how many positions this entry records. Prefix n-gram
// entries share the positions and payloads of the full word they derive
// from.
func (e *PostingEntry) Occurrences() int {
	return len(e.Positions)
}

// PostingList is a slice of PostingEntry, ordered by DocID then FieldName so
// that scans during scoring visit each document's fields together.
type PostingList []PostingEntry
