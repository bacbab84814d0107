// Package store holds the in-memory document store backing each index.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/clinisearch/go-context-search/model"
)

func init() {
	// Register common types that might appear in model.Document
	// (map[string]interface{}) so Gob can handle them as interface{} values.
	gob.Register([]interface{}{})
	gob.Register(map[string]interface{}{})
	gob.Register([]string{})
	gob.Register(float64(0))
	gob.Register(false)
}

type DocumentStore struct {
	Mu                     sync.RWMutex
	Docs                   map[uint32]model.Document // Internal ID to full document
	ExternalIDtoInternalID map[string]uint32         // User-provided ID to internal uint32 ID
	NextID                 uint32
}

// gobDocumentStoreData is a helper struct for Gob encoding/decoding
// DocumentStore data. It excludes the mutex.
type gobDocumentStoreData struct {
	Docs                   map[uint32]model.Document
	ExternalIDtoInternalID map[string]uint32
	NextID                 uint32
}

// GobEncode implements the gob.GobEncoder interface for DocumentStore.
func (ds *DocumentStore) GobEncode() ([]byte, error) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	// JSON unmarshalling yields []interface{} for arrays; convert to []string
	// where possible so the stored form is stable.
	storableDocs := make(map[uint32]model.Document, len(ds.Docs))
	for id, doc := range ds.Docs {
		storableDoc := make(model.Document, len(doc))
		for k, val := range doc {
			if interfaceSlice, ok := val.([]interface{}); ok {
				stringSlice := make([]string, 0, len(interfaceSlice))
				allStrings := true
				for _, item := range interfaceSlice {
					if strItem, isString := item.(string); isString {
						stringSlice = append(stringSlice, strItem)
					} else {
						allStrings = false
						break
					}
				}
				if allStrings {
					storableDoc[k] = stringSlice
				} else {
					storableDoc[k] = val
				}
			} else {
				storableDoc[k] = val
			}
		}
		storableDocs[id] = storableDoc
	}

	dataToEncode := gobDocumentStoreData{
		Docs:                   storableDocs,
		ExternalIDtoInternalID: ds.ExternalIDtoInternalID,
		NextID:                 ds.NextID,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, fmt.Errorf("failed to gob encode document store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for DocumentStore.
func (ds *DocumentStore) GobDecode(data []byte) error {
	decodedData := gobDocumentStoreData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode document store data: %w", err)
	}

	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	ds.Docs = decodedData.Docs
	ds.ExternalIDtoInternalID = decodedData.ExternalIDtoInternalID
	ds.NextID = decodedData.NextID

	if ds.Docs == nil {
		ds.Docs = make(map[uint32]model.Document)
	}
	if ds.ExternalIDtoInternalID == nil {
		ds.ExternalIDtoInternalID = make(map[string]uint32)
	}

	return nil
}
