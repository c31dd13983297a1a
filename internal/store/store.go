// Package store persists named collections of JSON documents behind one
// interface with interchangeable backends (local file, redis, postgres).
// A collection is always read and written as a whole; documents handed to
// callers are decoded copies, so mutating them never touches the backing.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names used by the application.
const (
	CollectionUsers       = "users"
	CollectionSubjects    = "subjects"
	CollectionEnrollments = "enrollments"
	CollectionAudit       = "audit"
	CollectionLabs        = "labs"
	CollectionRooms       = "rooms"
	CollectionBooks       = "books"
)

// ErrNotFound is returned by Get when no document carries the requested id.
var ErrNotFound = errors.New("document not found")

// Store is the persistence contract shared by all backends.
//
// Load returns the current contents of a collection. A backing that does not
// exist yet is initialized with seed and seed is returned; an unreadable
// backing falls back to seed without failing (logged by the backend).
// Save replaces the whole collection; readers never observe a partial write.
// Get returns the document whose "id" field equals id, or ErrNotFound.
// Query returns the documents matching every field of filter (equality, AND).
type Store interface {
	Load(ctx context.Context, collection string, seed []json.RawMessage) ([]json.RawMessage, error)
	Save(ctx context.Context, collection string, docs []json.RawMessage) error
	Get(ctx context.Context, collection, id string) (json.RawMessage, error)
	Query(ctx context.Context, collection string, filter map[string]any) ([]json.RawMessage, error)
}

// LoadAs loads a collection and decodes it into typed records.
func LoadAs[T any](ctx context.Context, s Store, collection string, seed []T) ([]T, error) {
	rawSeed, err := encodeAll(seed)
	if err != nil {
		return nil, err
	}
	docs, err := s.Load(ctx, collection, rawSeed)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](collection, docs)
}

// SaveAs encodes typed records and replaces the collection with them.
func SaveAs[T any](ctx context.Context, s Store, collection string, records []T) error {
	docs, err := encodeAll(records)
	if err != nil {
		return err
	}
	return s.Save(ctx, collection, docs)
}

// GetAs fetches one document by id and decodes it.
func GetAs[T any](ctx context.Context, s Store, collection, id string) (*T, error) {
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	var record T
	if err := json.Unmarshal(doc, &record); err != nil {
		return nil, fmt.Errorf("decode %s document %s: %w", collection, id, err)
	}
	return &record, nil
}

// QueryAs runs an equality filter and decodes the matching documents.
func QueryAs[T any](ctx context.Context, s Store, collection string, filter map[string]any) ([]T, error) {
	docs, err := s.Query(ctx, collection, filter)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](collection, docs)
}

func encodeAll[T any](records []T) ([]json.RawMessage, error) {
	docs := make([]json.RawMessage, 0, len(records))
	for _, record := range records {
		doc, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func decodeAll[T any](collection string, docs []json.RawMessage) ([]T, error) {
	records := make([]T, 0, len(docs))
	for _, doc := range docs {
		var record T
		if err := json.Unmarshal(doc, &record); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// matchDocument reports whether every filter field equals the corresponding
// document field. Values are compared through their JSON representation so
// numeric types do not need to line up exactly.
func matchDocument(doc json.RawMessage, filter map[string]any) bool {
	if len(filter) == 0 {
		return true
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return false
	}
	for key, want := range filter {
		have, ok := fields[key]
		if !ok {
			return false
		}
		wantRaw, err := json.Marshal(want)
		if err != nil {
			return false
		}
		if !jsonEqual(have, wantRaw) {
			return false
		}
	}
	return true
}

func jsonEqual(a, b json.RawMessage) bool {
	var av, bv any
	if err := json.Unmarshal(a, &av); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false
	}
	return fmt.Sprint(av) == fmt.Sprint(bv)
}

// documentID extracts the "id" field of a document, if any.
func documentID(doc json.RawMessage) (string, bool) {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(doc, &probe); err != nil || probe.ID == "" {
		return "", false
	}
	return probe.ID, true
}

// filterDocs applies matchDocument over a loaded collection.
func filterDocs(docs []json.RawMessage, filter map[string]any) []json.RawMessage {
	matched := make([]json.RawMessage, 0, len(docs))
	for _, doc := range docs {
		if matchDocument(doc, filter) {
			matched = append(matched, doc)
		}
	}
	return matched
}

// findDoc scans a loaded collection for a document id.
func findDoc(docs []json.RawMessage, id string) (json.RawMessage, error) {
	for _, doc := range docs {
		if docID, ok := documentID(doc); ok && docID == id {
			return doc, nil
		}
	}
	return nil, ErrNotFound
}
