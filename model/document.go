// Package model defines the document types shared across the engine.
package model

// Document is a flexible map representing a JSON clinical note.
// The documentID is the only required field for document identification.
// Other fields like "note_text", "department", "encounter_date" are accessed
// by their string keys and depend on index configuration.
type Document map[string]interface{}

// GetDocumentID returns the documentID if it's stored in the document map
// under the "documentID" key.
func (d Document) GetDocumentID() (string, bool) {
	if id, ok := d["documentID"]; ok {
		if str, sok := id.(string); sok {
			if str != "" {
				return str, true
			}
		}
	}
	return "", false
}
