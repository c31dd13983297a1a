package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	return fs, dir
}

func TestFileStoreSeedsMissingCollection(t *testing.T) {
	fs, dir := newTestFileStore(t)
	seed := []json.RawMessage{json.RawMessage(`{"id":"seed-1"}`)}

	docs, err := fs.Load(context.Background(), "users", seed)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	// The seed must have been written out so later loads see the same data.
	content, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "seed-1")

	again, err := fs.Load(context.Background(), "users", nil)
	require.NoError(t, err)
	require.Len(t, again, 1)
}

func TestFileStoreSaveThenLoad(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	docs := []json.RawMessage{
		json.RawMessage(`{"id":"a","n":1}`),
		json.RawMessage(`{"id":"b","n":2}`),
	}
	require.NoError(t, fs.Save(ctx, "things", docs))

	loaded, err := fs.Load(ctx, "things", nil)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.JSONEq(t, `{"id":"a","n":1}`, string(loaded[0]))
}

func TestFileStoreSaveEmptyIsNotReseeded(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()
	seed := []json.RawMessage{json.RawMessage(`{"id":"seed-1"}`)}

	_, err := fs.Load(ctx, "labs", seed)
	require.NoError(t, err)

	// Emptying the collection is a deliberate state, distinct from absent.
	require.NoError(t, fs.Save(ctx, "labs", nil))

	docs, err := fs.Load(ctx, "labs", seed)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFileStoreCorruptFileFallsBackToSeed(t *testing.T) {
	fs, dir := newTestFileStore(t)
	ctx := context.Background()
	seed := []json.RawMessage{json.RawMessage(`{"id":"seed-1"}`)}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "audit.json"), []byte("{not valid"), 0o644))

	docs, err := fs.Load(ctx, "audit", seed)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	// The corrupt file stays on disk until the next save.
	content, err := os.ReadFile(filepath.Join(dir, "audit.json"))
	require.NoError(t, err)
	assert.Equal(t, "{not valid", string(content))
}

func TestFileStoreGet(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, fs.Save(ctx, "users", []json.RawMessage{
		json.RawMessage(`{"id":"u1","name":"A"}`),
	}))

	doc, err := fs.Get(ctx, "users", "u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","name":"A"}`, string(doc))

	_, err = fs.Get(ctx, "users", "u2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreQuery(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, fs.Save(ctx, "enrollments", []json.RawMessage{
		json.RawMessage(`{"id":"e1","status":"Pending"}`),
		json.RawMessage(`{"id":"e2","status":"Approved"}`),
		json.RawMessage(`{"id":"e3","status":"Pending"}`),
	}))

	docs, err := fs.Query(ctx, "enrollments", map[string]any{"status": "Pending"})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
