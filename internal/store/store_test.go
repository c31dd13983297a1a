package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchDocument(t *testing.T) {
	doc := json.RawMessage(`{"id":"e1","status":"Pending","count":3}`)

	assert.True(t, matchDocument(doc, nil))
	assert.True(t, matchDocument(doc, map[string]any{"status": "Pending"}))
	assert.True(t, matchDocument(doc, map[string]any{"status": "Pending", "id": "e1"}))
	assert.True(t, matchDocument(doc, map[string]any{"count": 3}))
	assert.True(t, matchDocument(doc, map[string]any{"count": 3.0}))

	assert.False(t, matchDocument(doc, map[string]any{"status": "Approved"}))
	assert.False(t, matchDocument(doc, map[string]any{"missing": "x"}))
	assert.False(t, matchDocument(doc, map[string]any{"status": "Pending", "count": 4}))
}

func TestDocumentID(t *testing.T) {
	id, ok := documentID(json.RawMessage(`{"id":"u1","name":"x"}`))
	require.True(t, ok)
	assert.Equal(t, "u1", id)

	_, ok = documentID(json.RawMessage(`{"name":"x"}`))
	assert.False(t, ok)

	_, ok = documentID(json.RawMessage(`not json`))
	assert.False(t, ok)
}

func TestFindDoc(t *testing.T) {
	docs := []json.RawMessage{
		json.RawMessage(`{"id":"a"}`),
		json.RawMessage(`{"id":"b"}`),
	}

	doc, err := findDoc(docs, "b")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"b"}`, string(doc))

	_, err = findDoc(docs, "c")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTypedHelpersRoundTrip(t *testing.T) {
	type item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	fs, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, SaveAs(ctx, fs, "items", []item{{ID: "1", Name: "one"}, {ID: "2", Name: "two"}}))

	items, err := LoadAs[item](ctx, fs, "items", nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "one", items[0].Name)

	got, err := GetAs[item](ctx, fs, "items", "2")
	require.NoError(t, err)
	assert.Equal(t, "two", got.Name)

	matched, err := QueryAs[item](ctx, fs, "items", map[string]any{"name": "one"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "1", matched[0].ID)
}
