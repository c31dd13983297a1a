package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileStore persists each collection as one pretty-printed JSON array under
// the data directory. Writes go through a temp file and an atomic rename, so
// a reader sees either the previous or the new contents, never a torn file.
type FileStore struct {
	dataDir string
	logger  *zap.Logger
	mu      sync.Mutex
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dataDir string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dataDir: dataDir, logger: logger}, nil
}

func (f *FileStore) path(collection string) string {
	return filepath.Join(f.dataDir, collection+".json")
}

// Load implements Store. A missing file is initialized with seed; an
// unreadable or unparseable file falls back to seed without overwriting it.
func (f *FileStore) Load(ctx context.Context, collection string, seed []json.RawMessage) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadLocked(collection, seed)
}

func (f *FileStore) loadLocked(collection string, seed []json.RawMessage) ([]json.RawMessage, error) {
	if seed == nil {
		seed = []json.RawMessage{}
	}
	content, err := os.ReadFile(f.path(collection))
	if os.IsNotExist(err) {
		if err := f.writeLocked(collection, seed); err != nil {
			return nil, err
		}
		return seed, nil
	}
	if err != nil {
		f.logger.Warn("collection unreadable, using seed",
			zap.String("collection", collection), zap.Error(err))
		return seed, nil
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(content, &docs); err != nil {
		f.logger.Warn("collection corrupt, using seed",
			zap.String("collection", collection), zap.Error(err))
		return seed, nil
	}
	if docs == nil {
		docs = []json.RawMessage{}
	}
	return docs, nil
}

// Save implements Store.
func (f *FileStore) Save(ctx context.Context, collection string, docs []json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeLocked(collection, docs)
}

func (f *FileStore) writeLocked(collection string, docs []json.RawMessage) error {
	if docs == nil {
		docs = []json.RawMessage{}
	}
	content, err := json.MarshalIndent(docs, "", "    ")
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}
	path := f.path(collection)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, content, 0o644); err != nil {
		return fmt.Errorf("write collection %s: %w", collection, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("swap collection %s: %w", collection, err)
	}
	return nil
}

// Get implements Store.
func (f *FileStore) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	docs, err := f.Load(ctx, collection, nil)
	if err != nil {
		return nil, err
	}
	return findDoc(docs, id)
}

// Query implements Store.
func (f *FileStore) Query(ctx context.Context, collection string, filter map[string]any) ([]json.RawMessage, error) {
	docs, err := f.Load(ctx, collection, nil)
	if err != nil {
		return nil, err
	}
	return filterDocs(docs, filter), nil
}
